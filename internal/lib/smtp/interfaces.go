// Package smtp implementa o transporte de e-mail usado pelo worker de
// notificações.
package smtp

import "io"

// Client abstrai as operações do cliente SMTP usadas pelo sender,
// permitindo substituí-lo nos testes.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
