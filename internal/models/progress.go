package models

import "time"

// Estados do registro de progresso de um tópico.
const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// ProgressRecord acompanha o estudo de um usuário em um tópico do edital.
// Existe no máximo um registro por par (usuário, tópico).
//
// SecondsSpent acumula o tempo exato reportado pelos ticks; os minutos
// exibidos são sempre o piso de SecondsSpent/60. LastTickAt é a âncora
// usada pela acumulação: cada tick soma apenas o intervalo decorrido desde
// a âncora anterior, então um tick reenviado não conta tempo em dobro.
type ProgressRecord struct {
	UserUID         string    `json:"user_uid"`
	TopicID         string    `json:"topic_id"`
	Status          string    `json:"status"`
	PercentComplete int       `json:"percent_complete"` // 0-100
	SecondsSpent    int       `json:"seconds_spent"`
	LastTickAt      time.Time `json:"last_tick_at"`
	LastAccess      time.Time `json:"last_access"`
	ProgramID       string    `json:"program_id"`
	Level           string    `json:"level"`
	RoleID          string    `json:"role_id"`
}

// MinutesSpent devolve os minutos acumulados no tópico (piso).
func (p ProgressRecord) MinutesSpent() int {
	return p.SecondsSpent / 60
}
