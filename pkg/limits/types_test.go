package limits_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
)

func TestParsePlan(t *testing.T) {
	t.Parallel()

	p, err := limits.ParsePlan(" Pro ")
	require.NoError(t, err)
	assert.Equal(t, limits.PlanPro, p)

	for _, raw := range []string{"pro", "FREE", "ultimate"} {
		_, err = limits.ParsePlan(raw)
		assert.ErrorIs(t, err, limits.ErrUnknownPlan, raw)
	}

	_, err = limits.ParsePlan("Platinum")
	assert.ErrorIs(t, err, limits.ErrUnknownPlan)

	_, err = limits.ParsePlan("")
	assert.ErrorIs(t, err, limits.ErrUnknownPlan)
}

func TestParseFeature(t *testing.T) {
	t.Parallel()

	f, err := limits.ParseFeature("ai_enhancement")
	require.NoError(t, err)
	assert.Equal(t, limits.FeatureAIEnhancement, f)

	_, err = limits.ParseFeature("AI_ENHANCEMENT")
	assert.ErrorIs(t, err, limits.ErrUnknownFeature)
}

func TestNextTier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, limits.PlanPro, limits.NextTier(limits.PlanFree))
	assert.Equal(t, limits.PlanUltimate, limits.NextTier(limits.PlanPro))
	assert.Equal(t, limits.PlanUltimate, limits.NextTier(limits.PlanUltimate))
	assert.Equal(t, limits.PlanUltimate, limits.NextTier(limits.Plan("Legacy")))
}

func TestQuota(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		quota      limits.Quota
		remaining  int64
		exceeded   bool
		nearLimit  bool
		percentage int
	}{
		{"fresh", limits.Quota{Limit: 10, Used: 0}, 10, false, false, 0},
		{"below warning", limits.Quota{Limit: 10, Used: 7}, 3, false, false, 70},
		{"at warning", limits.Quota{Limit: 10, Used: 8}, 2, false, true, 80},
		{"at limit", limits.Quota{Limit: 10, Used: 10}, 0, true, true, 100},
		{"over limit", limits.Quota{Limit: 5, Used: 9}, 0, true, true, 100},
		{"zero quota", limits.Quota{Limit: 0, Used: 0}, 0, true, true, 100},
		{"unlimited", limits.Quota{Limit: limits.Unlimited, Used: 10000}, limits.Unlimited, false, false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.remaining, tt.quota.Remaining())
			assert.Equal(t, tt.exceeded, tt.quota.Exceeded())
			assert.Equal(t, tt.nearLimit, tt.quota.NearLimit())
			assert.Equal(t, tt.percentage, tt.quota.Percentage())
		})
	}
}

func TestFeature_Label(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AI enhancements", limits.FeatureAIEnhancement.Label())
	assert.Equal(t, "review requests", limits.Feature("review_requests").Label())
}
