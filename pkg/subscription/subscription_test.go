package subscription_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

func TestUsageSnapshot_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("api shape", func(t *testing.T) {
		t.Parallel()

		var s subscription.UsageSnapshot
		err := json.Unmarshal([]byte(`{
			"ai_enhancement": 4,
			"qr_scans": 12.0,
			"label": "ignored",
			"recentActivity": [{"type": "ai_enhancement", "at": "2024-01-01"}]
		}`), &s)
		require.NoError(t, err)

		assert.Equal(t, int64(4), s.Count("ai_enhancement"))
		assert.Equal(t, int64(12), s.Count("qr_scans"))
		assert.Equal(t, int64(0), s.Count("label"))
		assert.Len(t, s.RecentActivity, 1)
		assert.False(t, s.IsEmpty())
	})

	t.Run("negative counts are clamped", func(t *testing.T) {
		t.Parallel()

		var s subscription.UsageSnapshot
		require.NoError(t, json.Unmarshal([]byte(`{"ai_enhancement": -3}`), &s))
		assert.Equal(t, int64(0), s.Count("ai_enhancement"))
	})

	t.Run("round trip through stored shape", func(t *testing.T) {
		t.Parallel()

		in := subscription.NewUsageSnapshot(map[string]int64{"ai_enhancement": 2})
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out subscription.UsageSnapshot
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in.Counts, out.Counts)
	})

	t.Run("empty object", func(t *testing.T) {
		t.Parallel()

		var s subscription.UsageSnapshot
		require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
		assert.True(t, s.IsEmpty())
	})
}

func TestSubscription_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, subscription.Subscription{}.IsEmpty())
	assert.False(t, subscription.Subscription{Plan: "Free"}.IsEmpty())
	assert.False(t, subscription.Subscription{Status: "active"}.IsEmpty())
}

func TestTokenFromAuthorization(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", subscription.TokenFromAuthorization("Bearer abc"))
	assert.Equal(t, "abc", subscription.TokenFromAuthorization("bearer  abc "))
	assert.Empty(t, subscription.TokenFromAuthorization("Basic abc"))
	assert.Empty(t, subscription.TokenFromAuthorization(""))
}
