package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/pkg/binder"
)

type upgradeRequest struct {
	Plan string `json:"plan"`
}

func jsonRequest(body string, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var got upgradeRequest
		err := binder.JSON()(jsonRequest(`{"plan":"Free"}`, "application/json; charset=utf-8"), &got)
		require.NoError(t, err)
		assert.Equal(t, "Free", got.Plan)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{"missing content type", `{"plan":"Free"}`, "", binder.ErrMissingContentType},
		{"wrong content type", `plan=Free`, "application/x-www-form-urlencoded", binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", binder.ErrFailedToParseJSON},
		{"malformed", `{"plan":`, "application/json", binder.ErrFailedToParseJSON},
		{"unknown field", `{"plan":"Free","extra":1}`, "application/json", binder.ErrFailedToParseJSON},
		{"trailing data", `{"plan":"Free"}{"plan":"Pro"}`, "application/json", binder.ErrFailedToParseJSON},
		{"too large", `{"plan":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`, "application/json", binder.ErrFailedToParseJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got upgradeRequest
			err := binder.JSON()(jsonRequest(tt.body, tt.contentType), &got)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type qrRequest struct {
		URL      string   `query:"url"`
		Size     int      `query:"size"`
		Unread   *bool    `query:"unread"`
		Types    []string `query:"type"`
		Internal string   `query:"-"`
	}

	t.Run("binds typed values", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?url=https://example.com/r/acme&size=128&unread=yes&type=warning,error&Internal=x", nil)

		var got qrRequest
		require.NoError(t, binder.Query()(req, &got))
		assert.Equal(t, "https://example.com/r/acme", got.URL)
		assert.Equal(t, 128, got.Size)
		require.NotNil(t, got.Unread)
		assert.True(t, *got.Unread)
		assert.Equal(t, []string{"warning", "error"}, got.Types)
		assert.Empty(t, got.Internal)
	})

	t.Run("absent values keep zero", func(t *testing.T) {
		t.Parallel()
		var got qrRequest
		require.NoError(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &got))
		assert.Zero(t, got.Size)
		assert.Nil(t, got.Unread)
	})

	t.Run("invalid int", func(t *testing.T) {
		t.Parallel()
		var got qrRequest
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/?size=big", nil), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParseQuery)
	})

	t.Run("non-pointer target", func(t *testing.T) {
		t.Parallel()
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), qrRequest{})
		require.ErrorIs(t, err, binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type featureRequest struct {
		Feature string `path:"feature"`
		Page    uint   `path:"page"`
	}

	params := map[string]string{"feature": "ai_enhancement", "page": "2"}
	extractor := func(_ *http.Request, name string) string { return params[name] }

	t.Run("binds params", func(t *testing.T) {
		t.Parallel()
		var got featureRequest
		require.NoError(t, binder.Path(extractor)(httptest.NewRequest(http.MethodGet, "/", nil), &got))
		assert.Equal(t, "ai_enhancement", got.Feature)
		assert.Equal(t, uint(2), got.Page)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		var got featureRequest
		err := binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/", nil), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		bad := func(_ *http.Request, name string) string {
			if name == "page" {
				return "-1"
			}
			return ""
		}
		var got featureRequest
		err := binder.Path(bad)(httptest.NewRequest(http.MethodGet, "/", nil), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})
}
