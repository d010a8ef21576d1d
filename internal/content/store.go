// Package content implementa o repositório de conteúdo estático dos
// tópicos: corpo em markdown e metadados (flashcards, exercícios, tempo
// estimado) em JSON, guardados em um bucket e endereçados por
// {programa}/{topico}.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// ErrNotFound indica que o objeto pedido não existe no bucket.
var ErrNotFound = errors.New("content not found")

// Store descreve o repositório de conteúdo estático consumido pelos
// handlers de tópico.
type Store interface {
	// FetchText devolve o corpo em markdown do caminho informado.
	FetchText(ctx context.Context, path string) (string, error)
	// FetchJSON desserializa os metadados do caminho informado em v.
	FetchJSON(ctx context.Context, path string, v any) error
}

// BucketStore implementa Store sobre um bucket do Cloud Storage.
type BucketStore struct {
	client *storage.Client
	bucket string
}

// NewBucketStore cria o cliente do bucket de conteúdo.
func NewBucketStore(ctx context.Context, bucket string) (*BucketStore, error) {
	const op = "content.NewBucketStore"
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &BucketStore{client: client, bucket: bucket}, nil
}

// Close libera o cliente do bucket.
func (s *BucketStore) Close() error {
	return s.client.Close()
}

func (s *BucketStore) read(ctx context.Context, path string) ([]byte, error) {
	const op = "content.read"
	reader, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %s: %w", op, path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// FetchText devolve o corpo do tópico em {path}.md.
func (s *BucketStore) FetchText(ctx context.Context, path string) (string, error) {
	data, err := s.read(ctx, path+".md")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FetchJSON desserializa os metadados do tópico de {path}.json em v.
func (s *BucketStore) FetchJSON(ctx context.Context, path string, v any) error {
	const op = "content.FetchJSON"
	data, err := s.read(ctx, path+".json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
