// Package entitlement avalia os direitos de acesso de um usuário ao
// conteúdo completo da plataforma. A avaliação é uma função pura da
// assinatura e do instante atual: mesma entrada, mesma decisão, sem
// efeitos colaterais — pode ser reexecutada a cada mudança na assinatura.
package entitlement

import (
	"time"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// Evaluate calcula a decisão de acesso para uma assinatura no instante now.
//
// Regras, exaustivas sobre o status:
//   - active: acesso completo; dias restantes = teto de (ExpiresAt - now),
//     ou nil se a assinatura não tem data de expiração.
//   - trial: acesso completo enquanto TrialEndsAt > now (comparação estrita:
//     um trial que termina exatamente em now já está vencido); dias restantes
//     pelo teto, então um segundo antes do fim ainda conta 1 dia.
//   - expired, cancelled ou qualquer status desconhecido: bloqueado,
//     somente prévia. Status desconhecido falha fechado, nunca aberto.
func Evaluate(sub models.Subscription, now time.Time) models.AccessDecision {
	switch sub.Status {
	case models.StatusActive:
		return models.AccessDecision{
			CanAccessFullContent: true,
			IsPreviewOnly:        false,
			Status:               sub.Status,
			DaysRemaining:        daysUntil(sub.ExpiresAt, now),
		}
	case models.StatusTrial:
		if sub.TrialEndsAt != nil && sub.TrialEndsAt.After(now) {
			return models.AccessDecision{
				CanAccessFullContent: true,
				IsPreviewOnly:        false,
				Status:               sub.Status,
				DaysRemaining:        daysUntil(sub.TrialEndsAt, now),
			}
		}
		return blocked(sub.Status)
	case models.StatusExpired, models.StatusCancelled:
		return blocked(sub.Status)
	default:
		return blocked(sub.Status)
	}
}

func blocked(status string) models.AccessDecision {
	return models.AccessDecision{
		CanAccessFullContent: false,
		IsPreviewOnly:        true,
		Status:               status,
		DaysRemaining:        nil,
	}
}

// daysUntil devolve o número de dias até deadline, arredondado para cima,
// ou nil quando não há deadline.
func daysUntil(deadline *time.Time, now time.Time) *int {
	if deadline == nil {
		return nil
	}
	remaining := deadline.Sub(now)
	days := int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	return &days
}
