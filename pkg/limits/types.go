package limits

import (
	"fmt"
	"strings"
)

// Plan is a subscription tier controlling feature quotas.
type Plan string

// Supported plan tiers.
const (
	PlanFree     Plan = "Free"
	PlanPro      Plan = "Pro"
	PlanUltimate Plan = "Ultimate"
)

// DefaultPlan is assumed when the billing API reports no plan.
const DefaultPlan = PlanFree

// Plans lists every supported tier, cheapest first.
var Plans = []Plan{PlanFree, PlanPro, PlanUltimate}

// Feature is a consumable capability subject to a monthly quota.
type Feature string

// Supported feature types.
// Only ai_enhancement is metered end-to-end today.
const (
	FeatureAIEnhancement Feature = "ai_enhancement"
)

// DefaultFeature is checked when the caller does not name one.
const DefaultFeature = FeatureAIEnhancement

// Features lists every supported feature type.
var Features = []Feature{FeatureAIEnhancement}

const (
	// Unlimited represents a quota with no limit (-1)
	Unlimited int64 = -1
)

// ParsePlan converts a raw tier name into a Plan. Names match exactly after
// trimming whitespace: "free" is not PlanFree.
func ParsePlan(s string) (Plan, error) {
	s = strings.TrimSpace(s)
	for _, p := range Plans {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
}

// ParseFeature converts a raw feature key into a Feature.
func ParseFeature(s string) (Feature, error) {
	s = strings.TrimSpace(s)
	for _, f := range Features {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

// String returns the plan name.
func (p Plan) String() string { return string(p) }

// String returns the feature key.
func (f Feature) String() string { return string(f) }

// Label returns a human readable, pluralised name for the feature.
func (f Feature) Label() string {
	switch f {
	case FeatureAIEnhancement:
		return "AI enhancements"
	}
	return strings.ReplaceAll(string(f), "_", " ")
}

// NextTier returns the plan recommended as an upgrade from p.
func NextTier(p Plan) Plan {
	if p == PlanFree {
		return PlanPro
	}
	return PlanUltimate
}

// Quota describes usage of a feature against the plan limit.
type Quota struct {
	Plan    Plan    `json:"plan"`
	Feature Feature `json:"feature"`
	Limit   int64   `json:"limit"`
	Used    int64   `json:"used"`
}

// IsUnlimited reports whether the plan has no cap for the feature.
func (q Quota) IsUnlimited() bool {
	return q.Limit == Unlimited
}

// Remaining returns units left in the period, floored at zero.
// Returns Unlimited for uncapped quotas.
func (q Quota) Remaining() int64 {
	if q.IsUnlimited() {
		return Unlimited
	}
	return max(q.Limit-q.Used, 0)
}

// Exceeded reports whether no further usage is allowed.
func (q Quota) Exceeded() bool {
	return !q.IsUnlimited() && q.Used >= q.Limit
}

// NearLimit reports whether at least 80% of the quota is consumed.
// Integer arithmetic avoids float rounding at the boundary.
func (q Quota) NearLimit() bool {
	return !q.IsUnlimited() && q.Used*5 >= q.Limit*4
}

// Percentage returns usage as percentage (0-100, or -1 for unlimited).
func (q Quota) Percentage() int {
	if q.IsUnlimited() {
		return -1
	}
	if q.Limit == 0 {
		return 100
	}
	return int(min((q.Used*100)/q.Limit, 100))
}
