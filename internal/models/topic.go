package models

// CatalogTopic é um tópico do catálogo de conteúdo, mantido pelo console
// administrativo. O núcleo de estudo só lê IsPreview e os identificadores.
type CatalogTopic struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	IsPreview        bool   `json:"is_preview"` // tópico de amostra gratuita
	EstimatedMinutes int    `json:"estimated_minutes"`
	ProgramID        string `json:"program_id"`
	Level            string `json:"level"`
	RoleID           string `json:"role_id"`
	ContentPath      string `json:"content_path"` // caminho no bucket: {programa}/{id}
}

// TopicView é a visão de um tópico resolvida pelo portão de conteúdo:
// corpo completo ou prévia truncada com chamada para assinatura, mais o
// progresso do aluno no tópico (nil quando nunca iniciado).
type TopicView struct {
	Topic          CatalogTopic    `json:"topic"`
	Body           string          `json:"body"`
	IsFullBody     bool            `json:"is_full_body"`
	ShowUpsell     bool            `json:"show_upsell"`
	ProgressStatus string          `json:"progress_status"`
	Progress       *ProgressRecord `json:"progress"`
}
