// Package sl contém auxiliares para o logger slog, padronizando os campos
// estruturados usados no restante do código.
package sl

import "log/slog"

// Err devolve um slog.Attr com a chave "error" e o texto do erro.
//
// Exemplo:
//
//	log.Error("failed to accrue tick", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
