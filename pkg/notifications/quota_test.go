package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	"github.com/dmitrymomot/reviewsystem/pkg/notifications"
)

var testLinks = notifications.Links{
	UpgradeURL: "https://app.reviewsystem.io/settings/billing",
	PlansURL:   "https://app.reviewsystem.io/pricing",
}

func TestLimitReached(t *testing.T) {
	t.Parallel()

	n := notifications.LimitReached(limits.Quota{
		Plan:    limits.PlanFree,
		Feature: limits.FeatureAIEnhancement,
		Limit:   5,
		Used:    5,
	}, testLinks)

	assert.Equal(t, notifications.TypeError, n.Type)
	assert.Equal(t, "Usage Limit Reached", n.Title)
	assert.Equal(t, "You've used all 5 AI enhancements included in your Free plan this month.", n.Message)
	assert.Contains(t, n.Message, "5")
	assert.Contains(t, n.Message, "Free")
	assert.Equal(t, 8*time.Second, n.Duration)
	assert.Equal(t, int64(0), n.Data["remaining"])
	assert.Equal(t, int64(5), n.Data["limit"])
	assert.Equal(t, "Free", n.Data["plan"])
	assert.Equal(t, "ai_enhancement", n.Data["feature"])

	require.Len(t, n.Actions, 1)
	assert.Equal(t, "Upgrade Plan", n.Actions[0].Label)
	assert.Equal(t, testLinks.UpgradeURL, n.Actions[0].URL)
}

func TestLimitReached_OverLimitReportsZeroRemaining(t *testing.T) {
	t.Parallel()

	n := notifications.LimitReached(limits.Quota{
		Plan: limits.PlanPro, Feature: limits.FeatureAIEnhancement, Limit: 100, Used: 130,
	}, testLinks)
	assert.Equal(t, int64(0), n.Data["remaining"])
	assert.Contains(t, n.Message, "100 AI enhancements")
	assert.Contains(t, n.Message, "Pro plan")
}

func TestWarning(t *testing.T) {
	t.Parallel()

	n := notifications.Warning(limits.Quota{
		Plan:    limits.PlanPro,
		Feature: limits.FeatureAIEnhancement,
		Limit:   100,
		Used:    85,
	}, testLinks)

	assert.Equal(t, notifications.TypeWarning, n.Type)
	assert.Equal(t, "Approaching Usage Limit", n.Title)
	assert.Equal(t, "You have 15 of 100 AI enhancements remaining on your Pro plan this month.", n.Message)
	assert.Equal(t, 5*time.Second, n.Duration)
	assert.Equal(t, int64(15), n.Data["remaining"])
	require.Len(t, n.Actions, 1)
	assert.Equal(t, "Upgrade", n.Actions[0].Label)
}

func TestUpgradePrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		plan limits.Plan
		want limits.Plan
	}{
		{plan: limits.PlanFree, want: limits.PlanPro},
		{plan: limits.PlanPro, want: limits.PlanUltimate},
		{plan: limits.PlanUltimate, want: limits.PlanUltimate},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			t.Parallel()
			n := notifications.UpgradePrompt(tt.plan, testLinks)

			assert.Equal(t, notifications.TypeInfo, n.Type)
			assert.True(t, n.IsPersistent())
			assert.True(t, n.Dismissible)
			assert.Equal(t, "Upgrade to "+string(tt.want), n.Title)
			assert.Contains(t, n.Message, string(tt.want))
			assert.Equal(t, string(tt.want), n.Data["recommendedPlan"])

			require.Len(t, n.Actions, 2)
			assert.Equal(t, "Dismiss", n.Actions[0].Label)
			assert.Empty(t, n.Actions[0].URL)
			assert.Equal(t, "View Plans", n.Actions[1].Label)
			assert.Equal(t, testLinks.PlansURL, n.Actions[1].URL)
		})
	}
}
