package notifications

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
)

// Toast durations for quota notifications.
const (
	LimitReachedDuration = 8 * time.Second
	WarningDuration      = 5 * time.Second
)

// Links are the billing pages quota notifications point to.
type Links struct {
	UpgradeURL string
	PlansURL   string
}

// DefaultLinks are relative app routes.
var DefaultLinks = Links{
	UpgradeURL: "/settings/billing",
	PlansURL:   "/pricing",
}

// LimitReached builds the error toast shown when a quota is used up.
func LimitReached(q limits.Quota, links Links) Notification {
	return Notification{
		Type:     TypeError,
		Priority: PriorityHigh,
		Title:    "Usage Limit Reached",
		Message: fmt.Sprintf("You've used all %d %s included in your %s plan this month.",
			q.Limit, q.Feature.Label(), q.Plan),
		Data:        quotaData(q, 0),
		Actions:     []Action{{Label: "Upgrade Plan", URL: links.UpgradeURL, Style: "primary"}},
		Duration:    LimitReachedDuration,
		Dismissible: true,
	}
}

// Warning builds the toast shown once 80% of a quota is consumed.
func Warning(q limits.Quota, links Links) Notification {
	remaining := q.Remaining()
	return Notification{
		Type:     TypeWarning,
		Priority: PriorityNormal,
		Title:    "Approaching Usage Limit",
		Message: fmt.Sprintf("You have %d of %d %s remaining on your %s plan this month.",
			remaining, q.Limit, q.Feature.Label(), q.Plan),
		Data:        quotaData(q, remaining),
		Actions:     []Action{{Label: "Upgrade", URL: links.UpgradeURL, Style: "primary"}},
		Duration:    WarningDuration,
		Dismissible: true,
	}
}

// UpgradePrompt builds the persistent toast recommending the next tier.
func UpgradePrompt(current limits.Plan, links Links) Notification {
	next := limits.NextTier(current)
	return Notification{
		Type:     TypeInfo,
		Priority: PriorityNormal,
		Title:    fmt.Sprintf("Upgrade to %s", next),
		Message: fmt.Sprintf("Get more %s and unlock premium features with the %s plan.",
			limits.DefaultFeature.Label(), next),
		Data: map[string]any{
			"plan":            string(current),
			"recommendedPlan": string(next),
		},
		Actions: []Action{
			{Label: "Dismiss", Style: "secondary"},
			{Label: "View Plans", URL: links.PlansURL, Style: "primary"},
		},
		Dismissible: true,
	}
}

func quotaData(q limits.Quota, remaining int64) map[string]any {
	return map[string]any{
		"plan":      string(q.Plan),
		"feature":   string(q.Feature),
		"limit":     q.Limit,
		"used":      q.Used,
		"remaining": remaining,
	}
}
