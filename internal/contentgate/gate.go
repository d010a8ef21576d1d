// Package contentgate decide qual versão do conteúdo de um tópico deve ser
// entregue: corpo completo ou prévia com chamada para assinatura. A regra de
// precedência entre a flag de amostra do tópico e os direitos do usuário fica
// explícita e testável aqui, em vez de espalhada em condicionais de UI.
package contentgate

import (
	"unicode/utf8"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// PreviewRuneLimit é o tamanho da prévia gerada quando o tópico não tem
// um corpo de prévia próprio.
const PreviewRuneLimit = 600

// ResolveView aplica a regra de acesso ao conteúdo de um tópico.
//
// Precedência: se o tópico é de amostra gratuita (topicIsPreview), o corpo
// completo é entregue sempre, mesmo com a assinatura vencida — é uma
// liberação no nível do conteúdo, não uma exceção por usuário. Caso
// contrário a decisão de acesso manda: acesso completo entrega fullBody;
// sem acesso, entrega previewBody (ou um recorte de fullBody quando não há
// prévia explícita) com a flag de upsell ligada.
//
// A função não tem efeitos colaterais: não altera assinatura nem progresso.
func ResolveView(topicIsPreview bool, decision models.AccessDecision, fullBody, previewBody string) (body string, isFull bool, showUpsell bool) {
	if topicIsPreview {
		return fullBody, true, false
	}
	if decision.CanAccessFullContent {
		return fullBody, true, false
	}
	if previewBody != "" {
		return previewBody, false, true
	}
	return truncate(fullBody, PreviewRuneLimit), false, true
}

// truncate recorta s nos primeiros limit runes, sem quebrar um caractere
// multibyte no meio.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
