package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		sub          models.Subscription
		wantFull     bool
		wantPreview  bool
		wantDays     *int
		wantDaysNil  bool
	}{
		{
			name: "active subscription with future expiry",
			sub: models.Subscription{
				Status:    models.StatusActive,
				ExpiresAt: timePtr(now.AddDate(0, 0, 30)),
			},
			wantFull:    true,
			wantPreview: false,
			wantDays:    intPtr(30),
		},
		{
			name:        "active subscription without expiry date",
			sub:         models.Subscription{Status: models.StatusActive},
			wantFull:    true,
			wantPreview: false,
			wantDaysNil: true,
		},
		{
			name: "trial with two days remaining",
			sub: models.Subscription{
				Status:      models.StatusTrial,
				TrialEndsAt: timePtr(now.AddDate(0, 0, 2)),
			},
			wantFull:    true,
			wantPreview: false,
			wantDays:    intPtr(2),
		},
		{
			name: "trial one second before expiry still counts one day",
			sub: models.Subscription{
				Status:      models.StatusTrial,
				TrialEndsAt: timePtr(now.Add(time.Second)),
			},
			wantFull:    true,
			wantPreview: false,
			wantDays:    intPtr(1),
		},
		{
			name: "trial ending exactly now is expired",
			sub: models.Subscription{
				Status:      models.StatusTrial,
				TrialEndsAt: timePtr(now),
			},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
		{
			name: "trial expired one second ago",
			sub: models.Subscription{
				Status:      models.StatusTrial,
				TrialEndsAt: timePtr(now.Add(-time.Second)),
			},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
		{
			name:        "trial without end date is blocked",
			sub:         models.Subscription{Status: models.StatusTrial},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
		{
			name:        "expired subscription",
			sub:         models.Subscription{Status: models.StatusExpired},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
		{
			name:        "cancelled subscription",
			sub:         models.Subscription{Status: models.StatusCancelled},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
		{
			name:        "unknown status fails closed",
			sub:         models.Subscription{Status: "vitalicio"},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
		{
			name:        "missing subscription fails closed",
			sub:         models.Subscription{},
			wantFull:    false,
			wantPreview: true,
			wantDaysNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.sub, now)

			assert.Equal(t, tt.wantFull, got.CanAccessFullContent)
			assert.Equal(t, tt.wantPreview, got.IsPreviewOnly)
			assert.Equal(t, tt.sub.Status, got.Status)
			if tt.wantDaysNil {
				assert.Nil(t, got.DaysRemaining)
			} else {
				require.NotNil(t, got.DaysRemaining)
				assert.Equal(t, *tt.wantDays, *got.DaysRemaining)
			}
		})
	}
}

func TestEvaluate_ReferentialTransparency(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sub := models.Subscription{
		Status:      models.StatusTrial,
		TrialEndsAt: timePtr(now.AddDate(0, 0, 5)),
	}

	first := Evaluate(sub, now)
	for range 100 {
		assert.Equal(t, first, Evaluate(sub, now))
	}
}

func TestEvaluate_CeilingDivision(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// 36 horas restantes devem contar como 2 dias, não 1.
	sub := models.Subscription{
		Status:    models.StatusActive,
		ExpiresAt: timePtr(now.Add(36 * time.Hour)),
	}
	got := Evaluate(sub, now)
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, 2, *got.DaysRemaining)

	// Exatamente 24 horas contam como 1 dia.
	sub.ExpiresAt = timePtr(now.Add(24 * time.Hour))
	got = Evaluate(sub, now)
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, 1, *got.DaysRemaining)
}

func intPtr(v int) *int { return &v }
