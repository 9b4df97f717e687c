package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reviewsystem/handler"
	"github.com/dmitrymomot/reviewsystem/pkg/binder"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("data envelope", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.JSON(map[string]bool{"allowed": true}).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, handler.JSONResponse{Data: map[string]any{"allowed": true}}, decode(t, w.Body.Bytes()))
	})

	t.Run("status and meta", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.JSON(
			map[string]string{"id": "n1"},
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithJSONMeta(map[string]any{"unread": float64(3)}),
		)
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusCreated, w.Code)
		got := decode(t, w.Body.Bytes())
		assert.Equal(t, map[string]any{"unread": float64(3)}, got.Meta)
	})

	t.Run("error value becomes error envelope", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.JSON(errors.New("db password leaked")).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		got := decode(t, w.Body.Bytes())
		require.NotNil(t, got.Error)
		assert.Equal(t, "internal_server_error", got.Error.Code)
		assert.NotContains(t, got.Error.Message, "password")
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"http error", handler.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped http error", fmt.Errorf("lookup: %w", handler.NewHTTPError(http.StatusBadRequest, "missing_tenant")), http.StatusBadRequest, "missing_tenant"},
		{"binder media type", fmt.Errorf("%w: text/plain", binder.ErrUnsupportedMediaType), http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"binder parse", fmt.Errorf("%w: bad", binder.ErrFailedToParseJSON), http.StatusBadRequest, "bad_request"},
		{"generic", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			require.NoError(t, handler.JSONError(tt.err).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

			assert.Equal(t, tt.wantStatus, w.Code)
			got := decode(t, w.Body.Bytes())
			require.NotNil(t, got.Error)
			assert.Equal(t, tt.wantCode, got.Error.Code)
			assert.Nil(t, got.Data)
		})
	}
}

func TestBlob(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	resp := handler.Blob("image/png", []byte{0x89, 'P', 'N', 'G'}, map[string]string{"Cache-Control": "public, max-age=3600"})
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "4", w.Header().Get("Content-Length"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes())
}
