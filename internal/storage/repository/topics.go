package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// GetTopic devolve um tópico do catálogo pelo ID. O catálogo pertence ao
// console administrativo; o núcleo de estudo só o lê.
func (s *Storage) GetTopic(ctx context.Context, topicID string) (*models.CatalogTopic, error) {
	const op = "storage.GetTopic"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, is_preview, estimated_minutes, program_id,
			      level, role_id, content_path
			  FROM catalog_topics
			  WHERE id = $1`
	topic := &models.CatalogTopic{}
	row := s.DB.QueryRowContext(ctx, query, topicID)
	if err := row.Scan(&topic.ID, &topic.Title, &topic.IsPreview, &topic.EstimatedMinutes,
		&topic.ProgramID, &topic.Level, &topic.RoleID, &topic.ContentPath); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return topic, nil
}

// ListTopicsByProgram devolve os tópicos de um programa, na ordem do edital.
func (s *Storage) ListTopicsByProgram(ctx context.Context, programID string) ([]*models.CatalogTopic, error) {
	const op = "storage.ListTopicsByProgram"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, is_preview, estimated_minutes, program_id,
			      level, role_id, content_path
			  FROM catalog_topics
			  WHERE program_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CatalogTopic
	for rows.Next() {
		var topic models.CatalogTopic
		if err = rows.Scan(&topic.ID, &topic.Title, &topic.IsPreview, &topic.EstimatedMinutes,
			&topic.ProgramID, &topic.Level, &topic.RoleID, &topic.ContentPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &topic)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
