package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

const progressColumns = `user_uid, topic_id, status, percent_complete,
		seconds_spent, last_tick_at, last_access, program_id, level, role_id`

// GetProgress devolve o registro de progresso do par (usuário, tópico).
func (s *Storage) GetProgress(ctx context.Context, userUID, topicID string) (*models.ProgressRecord, error) {
	const op = "storage.GetProgress"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + progressColumns + `
			  FROM progress_records
			  WHERE user_uid = $1 AND topic_id = $2`
	rec := &models.ProgressRecord{}
	row := s.DB.QueryRowContext(ctx, query, userUID, topicID)
	if err := row.Scan(&rec.UserUID, &rec.TopicID, &rec.Status, &rec.PercentComplete,
		&rec.SecondsSpent, &rec.LastTickAt, &rec.LastAccess,
		&rec.ProgramID, &rec.Level, &rec.RoleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// StartProgress registra a primeira visita a um tópico (cria o registro já
// em andamento, com zero minutos) ou, se o registro já existe, apenas
// reancora o tick e o último acesso — o tempo fora do tópico não conta.
// Devolve true quando o registro foi criado nesta chamada.
func (s *Storage) StartProgress(ctx context.Context, rec models.ProgressRecord, now time.Time) (bool, error) {
	const op = "storage.StartProgress"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO progress_records (user_uid, topic_id, status,
			      percent_complete, seconds_spent, last_tick_at, last_access,
			      program_id, level, role_id)
			  VALUES ($1, $2, 'in_progress', 0, 0, $3, $3, $4, $5, $6)
			  ON CONFLICT (user_uid, topic_id)
			  DO UPDATE SET last_tick_at = $3, last_access = $3
			  RETURNING (xmax = 0)`
	var created bool
	if err := s.DB.QueryRowContext(ctx, query,
		rec.UserUID, rec.TopicID, now, rec.ProgramID, rec.Level, rec.RoleID).Scan(&created); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// AccrueTick soma ao registro o tempo decorrido desde a âncora anterior,
// limitado a maxSeconds por tick, e reancora. Só se aplica a registros em
// andamento: um tópico concluído não acumula mais tempo. O percentual só
// avança (GREATEST), nunca recua. Devolve os segundos efetivamente somados;
// ErrNotFound quando não há registro em andamento para o par.
func (s *Storage) AccrueTick(ctx context.Context, userUID, topicID string, now time.Time, maxSeconds, percentComplete int) (int, error) {
	const op = "storage.AccrueTick"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH applied AS (
			      SELECT LEAST(GREATEST(EXTRACT(EPOCH FROM ($3::TIMESTAMPTZ - last_tick_at))::INT, 0), $4::INT) AS delta
			      FROM progress_records
			      WHERE user_uid = $1 AND topic_id = $2 AND status = 'in_progress'
			  )
			  UPDATE progress_records p
			  SET seconds_spent = p.seconds_spent + applied.delta,
			      percent_complete = GREATEST(p.percent_complete, LEAST($5::INT, 100)),
			      last_tick_at = $3,
			      last_access = $3
			  FROM applied
			  WHERE p.user_uid = $1 AND p.topic_id = $2 AND p.status = 'in_progress'
			  RETURNING applied.delta`
	var delta int
	if err := s.DB.QueryRowContext(ctx, query,
		userUID, topicID, now, maxSeconds, percentComplete).Scan(&delta); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return delta, nil
}

// CompleteProgress fecha o registro: acumula o restante da sessão em curso,
// marca 100% e muda o status para concluído. Devolve os segundos finais
// somados; ErrNotFound quando não há registro em andamento.
func (s *Storage) CompleteProgress(ctx context.Context, userUID, topicID string, now time.Time, maxSeconds int) (int, error) {
	const op = "storage.CompleteProgress"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH applied AS (
			      SELECT LEAST(GREATEST(EXTRACT(EPOCH FROM ($3::TIMESTAMPTZ - last_tick_at))::INT, 0), $4::INT) AS delta
			      FROM progress_records
			      WHERE user_uid = $1 AND topic_id = $2 AND status = 'in_progress'
			  )
			  UPDATE progress_records p
			  SET seconds_spent = p.seconds_spent + applied.delta,
			      percent_complete = 100,
			      status = 'completed',
			      last_tick_at = $3,
			      last_access = $3
			  FROM applied
			  WHERE p.user_uid = $1 AND p.topic_id = $2 AND p.status = 'in_progress'
			  RETURNING applied.delta`
	var delta int
	if err := s.DB.QueryRowContext(ctx, query,
		userUID, topicID, now, maxSeconds).Scan(&delta); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return delta, nil
}

// ReopenProgress volta um tópico concluído para em andamento, por ação
// explícita do usuário. O percentual e o tempo acumulado são mantidos e a
// acumulação recomeça da âncora atual.
func (s *Storage) ReopenProgress(ctx context.Context, userUID, topicID string, now time.Time) error {
	const op = "storage.ReopenProgress"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE progress_records
			  SET status = 'in_progress',
			      last_tick_at = $3,
			      last_access = $3
			  WHERE user_uid = $1 AND topic_id = $2 AND status = 'completed'`
	res, err := s.DB.ExecContext(ctx, query, userUID, topicID, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListProgressByUser devolve todos os registros de progresso do usuário.
func (s *Storage) ListProgressByUser(ctx context.Context, userUID string) ([]*models.ProgressRecord, error) {
	const op = "storage.ListProgressByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + progressColumns + `
			  FROM progress_records
			  WHERE user_uid = $1
			  ORDER BY last_access DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ProgressRecord
	for rows.Next() {
		var rec models.ProgressRecord
		if err = rows.Scan(&rec.UserUID, &rec.TopicID, &rec.Status, &rec.PercentComplete,
			&rec.SecondsSpent, &rec.LastTickAt, &rec.LastAccess,
			&rec.ProgramID, &rec.Level, &rec.RoleID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
