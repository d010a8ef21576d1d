package models

// AccessDecision é o resultado derivado da avaliação de direitos de acesso.
// Nunca é persistida: recalculada a cada mudança na assinatura.
// DaysRemaining é nil quando não há prazo aplicável (acesso bloqueado ou
// assinatura sem data de expiração).
type AccessDecision struct {
	CanAccessFullContent bool   `json:"can_access_full_content"`
	IsPreviewOnly        bool   `json:"is_preview_only"`
	Status               string `json:"status"`
	DaysRemaining        *int   `json:"days_remaining"`
}
