package usage

import (
	"time"

	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

// CacheDuration is how long a fetched plan and usage pair is trusted.
const CacheDuration = 5 * time.Minute

// Entry is one cached read of the billing API.
type Entry struct {
	Subscription subscription.Subscription  `json:"subscription"`
	Usage        subscription.UsageSnapshot `json:"usage"`
	FetchedAt    time.Time                  `json:"fetchedAt"`
}

// Valid reports whether the entry can serve a check at now.
// Entries with an empty subscription or empty usage are never valid, so a
// partially failed read is retried on the next call.
func (e Entry) Valid(now time.Time, ttl time.Duration) bool {
	if e.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(e.FetchedAt) < ttl &&
		!e.Subscription.IsEmpty() &&
		!e.Usage.IsEmpty()
}
