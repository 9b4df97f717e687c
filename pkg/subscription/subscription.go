package subscription

import (
	"encoding/json"
	"maps"
)

// Subscription is the tenant's current billing state as reported by the billing API.
// Only Plan matters to quota decisions; the rest is carried for display.
type Subscription struct {
	Plan        string  `json:"plan"`
	Amount      float64 `json:"amount,omitempty"`
	NextBilling string  `json:"nextBilling,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// IsEmpty reports whether the API returned no subscription payload.
func (s Subscription) IsEmpty() bool {
	return s == Subscription{}
}

// Activity is an entry of the recent usage feed. Opaque to quota logic.
type Activity map[string]any

// UsageSnapshot holds per-feature consumption for the current billing period.
type UsageSnapshot struct {
	Counts         map[string]int64 `json:"counts"`
	RecentActivity []Activity       `json:"recentActivity,omitempty"`
}

// NewUsageSnapshot builds a snapshot from feature counts.
// Negative counts are clamped to zero.
func NewUsageSnapshot(counts map[string]int64) UsageSnapshot {
	s := UsageSnapshot{Counts: make(map[string]int64, len(counts))}
	for k, v := range counts {
		s.Counts[k] = max(v, 0)
	}
	return s
}

// Count returns the usage for a feature key, zero when absent.
func (s UsageSnapshot) Count(feature string) int64 {
	return s.Counts[feature]
}

// IsEmpty reports whether the API returned neither counts nor activity.
func (s UsageSnapshot) IsEmpty() bool {
	return len(s.Counts) == 0 && len(s.RecentActivity) == 0
}

// Clone returns a deep copy of the counts; activity entries are shared.
func (s UsageSnapshot) Clone() UsageSnapshot {
	return UsageSnapshot{
		Counts:         maps.Clone(s.Counts),
		RecentActivity: append([]Activity(nil), s.RecentActivity...),
	}
}

// UnmarshalJSON accepts both the stored shape ({"counts": {...}}) and the
// billing API shape, where every numeric top-level key is a feature count:
//
//	{"ai_enhancement": 3, "recentActivity": [...]}
func (s *UsageSnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	counts := make(map[string]int64)
	var activity []Activity

	for key, value := range raw {
		switch key {
		case "recentActivity":
			if err := json.Unmarshal(value, &activity); err != nil {
				return err
			}
		case "counts":
			var stored map[string]int64
			if err := json.Unmarshal(value, &stored); err != nil {
				return err
			}
			maps.Copy(counts, stored)
		default:
			var n json.Number
			if err := json.Unmarshal(value, &n); err != nil {
				// Non-numeric fields are not counters.
				continue
			}
			v, err := n.Float64()
			if err != nil {
				continue
			}
			counts[key] = int64(v)
		}
	}

	*s = NewUsageSnapshot(counts)
	s.RecentActivity = activity
	return nil
}

type subscriptionEnvelope struct {
	Subscription *Subscription `json:"subscription"`
}

type usageEnvelope struct {
	Usage *UsageSnapshot `json:"usage"`
}
