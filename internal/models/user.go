// Package models contém as estruturas de domínio da plataforma:
// usuário com assinatura, preferências e estatísticas de estudo,
// registros de progresso por tópico e a decisão de acesso calculada.
// As estruturas são usadas tanto na lógica de negócio quanto no armazenamento.
package models

import "time"

// Valores possíveis de SubscriptionStatus.
const (
	StatusTrial     = "trial"
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Valores possíveis de SubscriptionPlan.
const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

// Subscription descreve o estado da assinatura de um usuário.
// TrialEndsAt e ExpiresAt podem ser nil — ausência de prazo definido.
type Subscription struct {
	Status      string     `json:"status"`                 // trial, active, expired ou cancelled
	Plan        *string    `json:"plan,omitempty"`         // monthly ou annual (nil durante o trial)
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Preferences guarda as preferências de estudo do usuário.
type Preferences struct {
	InterestedPrograms   []string `json:"interested_programs"`   // programas de interesse, em ordem de prioridade
	DailyGoalMinutes     int      `json:"daily_goal_minutes"`    // meta diária em minutos (>= 0)
	NotificationsEnabled bool     `json:"notifications_enabled"`
}

// Stats acumula as estatísticas agregadas de estudo do usuário.
// Invariante: TotalCorrect <= TotalQuestions.
type Stats struct {
	TotalQuestions int        `json:"total_questions"`
	TotalCorrect   int        `json:"total_correct"`
	TotalSeconds   int        `json:"total_seconds"`
	Streak         int        `json:"streak"`      // dias consecutivos de estudo
	LastAccess     *time.Time `json:"last_access"`
}

// TotalMinutes devolve o tempo total de estudo em minutos inteiros
// (arredondamento para baixo).
func (s Stats) TotalMinutes() int {
	return s.TotalSeconds / 60
}

// User representa um usuário autenticado da plataforma.
// Criado de forma idempotente no primeiro login e nunca removido pelo núcleo.
type User struct {
	UID          string       `json:"uid"`
	Email        string       `json:"email"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"` // admin ou user
	Subscription Subscription `json:"subscription"`
	Preferences  Preferences  `json:"preferences"`
	Stats        Stats        `json:"stats"`
}

// UserInfo carrega os dados mínimos de um usuário para o pipeline
// de notificações (fila -> e-mail).
type UserInfo struct {
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	TrialEndsAt *time.Time `json:"trial_ends_at"`
}
