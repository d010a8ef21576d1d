// Package grpc agrupa o contrato do serviço de autenticação: a definição
// em proto/, os stubs gerados em gen/ e as implementações de servidor e
// cliente.
//
// Os stubs não são versionados; gere-os com `go generate ./internal/grpc`.
package grpc

//go:generate protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative --proto_path=proto proto/auth.proto
