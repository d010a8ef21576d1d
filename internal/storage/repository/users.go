package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

const userColumns = `uid, email, username, password_hash, role,
		subscription_status, subscription_plan, trial_ends_at, expires_at,
		interested_programs, daily_goal_minutes, notifications_enabled,
		total_questions, total_correct, total_seconds, streak, last_access`

// EnsureUser grava o registro padrão do usuário caso ele ainda não exista
// (create-if-absent no nível do banco: chamadas concorrentes para a mesma
// identidade produzem exatamente um registro). O UID é gravado sempre:
// o informado pelo chamador ou um gerado aqui, para o registro nascer
// alcançável pelas leituras por UID. Devolve true quando o registro foi
// criado nesta chamada.
func (s *Storage) EnsureUser(ctx context.Context, user models.User) (bool, error) {
	const op = "storage.EnsureUser"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	programs, err := json.Marshal(user.Preferences.InterestedPrograms)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if user.UID == "" {
		user.UID = uuid.NewString()
	}

	query := `INSERT INTO users (uid, email, username, password_hash, role,
			      subscription_status, trial_ends_at, interested_programs,
			      daily_goal_minutes, notifications_enabled)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (username) DO NOTHING;`
	res, err := s.DB.ExecContext(ctx, query,
		user.UID, user.Email, user.Username, user.PasswordHash, user.Role,
		user.Subscription.Status, user.Subscription.TrialEndsAt, programs,
		user.Preferences.DailyGoalMinutes, user.Preferences.NotificationsEnabled)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// GetUser devolve o usuário pelo UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	return s.scanUser(ctx, op, s.DB.QueryRowContext(ctx, query, userUID))
}

// GetUserByUsername devolve o usuário pelo username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return s.scanUser(ctx, op, s.DB.QueryRowContext(ctx, query, username))
}

func (s *Storage) scanUser(ctx context.Context, op string, row *sql.Row) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u := &models.User{}
	var plan sql.NullString
	var trialEndsAt, expiresAt, lastAccess sql.NullTime
	var programs []byte
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.Subscription.Status, &plan, &trialEndsAt, &expiresAt,
		&programs, &u.Preferences.DailyGoalMinutes, &u.Preferences.NotificationsEnabled,
		&u.Stats.TotalQuestions, &u.Stats.TotalCorrect, &u.Stats.TotalSeconds,
		&u.Stats.Streak, &lastAccess); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if plan.Valid {
		u.Subscription.Plan = &plan.String
	}
	if trialEndsAt.Valid {
		u.Subscription.TrialEndsAt = &trialEndsAt.Time
	}
	if expiresAt.Valid {
		u.Subscription.ExpiresAt = &expiresAt.Time
	}
	if lastAccess.Valid {
		u.Stats.LastAccess = &lastAccess.Time
	}
	if len(programs) > 0 {
		if err := json.Unmarshal(programs, &u.Preferences.InterestedPrograms); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return u, nil
}

// UpdateSubscription sobrescreve os campos de assinatura do usuário.
func (s *Storage) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_status = $1,
			      subscription_plan = $2,
			      trial_ends_at = $3,
			      expires_at = $4
			  WHERE uid = $5`
	res, err := s.DB.ExecContext(ctx, query,
		sub.Status, sub.Plan, sub.TrialEndsAt, sub.ExpiresAt, userUID)
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

// UpdatePreferences sobrescreve as preferências de estudo do usuário.
func (s *Storage) UpdatePreferences(ctx context.Context, userUID string, prefs models.Preferences) error {
	const op = "storage.UpdatePreferences"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	programs, err := json.Marshal(prefs.InterestedPrograms)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE users
			  SET interested_programs = $1,
			      daily_goal_minutes = $2,
			      notifications_enabled = $3
			  WHERE uid = $4`
	res, err := s.DB.ExecContext(ctx, query,
		programs, prefs.DailyGoalMinutes, prefs.NotificationsEnabled, userUID)
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

// IncrementAnswerStats incrementa os contadores agregados de questões do
// usuário. total_correct só avança junto com total_questions, então a
// invariante total_correct <= total_questions vale por construção.
func (s *Storage) IncrementAnswerStats(ctx context.Context, userUID string, wasCorrect bool, elapsedSeconds int) error {
	const op = "storage.IncrementAnswerStats"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET total_questions = total_questions + 1,
			      total_correct = total_correct + CASE WHEN $1 THEN 1 ELSE 0 END,
			      total_seconds = total_seconds + $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, wasCorrect, elapsedSeconds, userUID)
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

// AddStudySeconds soma segundos de estudo ao total agregado do usuário.
func (s *Storage) AddStudySeconds(ctx context.Context, userUID string, seconds int) error {
	const op = "storage.AddStudySeconds"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET total_seconds = total_seconds + $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, seconds, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TouchStreak atualiza a sequência de dias consecutivos de estudo:
// mesmo dia mantém, dia seguinte incrementa, lacuna reinicia em 1.
// Devolve o valor atualizado.
func (s *Storage) TouchStreak(ctx context.Context, userUID string, now time.Time) (int, error) {
	const op = "storage.TouchStreak"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET streak = CASE
			          WHEN last_access IS NOT NULL AND last_access::DATE = $1::DATE THEN streak
			          WHEN last_access IS NOT NULL AND last_access::DATE = $1::DATE - 1 THEN streak + 1
			          ELSE 1
			      END,
			      last_access = $1
			  WHERE uid = $2
			  RETURNING streak`
	var streak int
	if err := s.DB.QueryRowContext(ctx, query, now, userUID).Scan(&streak); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return streak, nil
}

// FindTrialsExpiringToday lista os usuários cujo trial termina hoje,
// para o pipeline de notificações.
func (s *Storage) FindTrialsExpiringToday(ctx context.Context) ([]*models.UserInfo, error) {
	const op = "storage.FindTrialsExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, username, trial_ends_at
			  FROM users
			  WHERE subscription_status = 'trial'
			    AND trial_ends_at::DATE = CURRENT_DATE;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserInfo
	for rows.Next() {
		var info models.UserInfo
		var trialEndsAt sql.NullTime
		if err = rows.Scan(&info.Email, &info.Username, &trialEndsAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if trialEndsAt.Valid {
			info.TrialEndsAt = &trialEndsAt.Time
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUsers devolve os usuários com paginação, para o console administrativo.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY username
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u := models.User{}
		var plan sql.NullString
		var trialEndsAt, expiresAt, lastAccess sql.NullTime
		var programs []byte
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
			&u.Subscription.Status, &plan, &trialEndsAt, &expiresAt,
			&programs, &u.Preferences.DailyGoalMinutes, &u.Preferences.NotificationsEnabled,
			&u.Stats.TotalQuestions, &u.Stats.TotalCorrect, &u.Stats.TotalSeconds,
			&u.Stats.Streak, &lastAccess); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if plan.Valid {
			u.Subscription.Plan = &plan.String
		}
		if trialEndsAt.Valid {
			u.Subscription.TrialEndsAt = &trialEndsAt.Time
		}
		if expiresAt.Valid {
			u.Subscription.ExpiresAt = &expiresAt.Time
		}
		if lastAccess.Valid {
			u.Stats.LastAccess = &lastAccess.Time
		}
		if len(programs) > 0 {
			if err = json.Unmarshal(programs, &u.Preferences.InterestedPrograms); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
