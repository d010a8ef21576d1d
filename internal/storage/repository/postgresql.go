// Package repository implementa o armazenamento em PostgreSQL dos
// usuários, dos registros de progresso por tópico e do catálogo de
// conteúdo. Os campos são atualizados de forma pontual (um UPDATE por
// subcampo tocado), para que escritas concorrentes de dispositivos
// diferentes disputem apenas os campos que realmente alteram.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registro do driver pgx para uso com database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound indica que o registro consultado não existe (ou que a
// transição pedida não se aplica ao estado atual do registro).
var ErrNotFound = errors.New("record not found")

// Storage encapsula a conexão com o PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New abre a conexão com o PostgreSQL e valida com um ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifica se o esquema já foi aplicado.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
