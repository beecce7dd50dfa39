package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/apperror"
	appctx "kitchenledger/internal/core/context"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator map[string]*appctx.UserContext

func (v stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := v[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), ErrorHandler())
	r.Use(mw...)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperror.NewInsufficientStock("inv-1", "Sugar", "5.0000", "1.0000"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "Sugar", details["ingredient"])
	assert.Equal(t, "1.0000", details["available"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused to 10.0.0.5"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Equal(t, apperror.CodeInternal, decode(t, rec)["code"])
}

func TestRecovery_RendersPanicAs500(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, decode(t, rec)["code"])
}

func TestAuth(t *testing.T) {
	users := stubValidator{
		"admin-token": {UserID: "u1", Role: "admin"},
		"user-token":  {UserID: "u2", Role: "user"},
	}
	r := newEngine(Auth(users))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
	})
	r.DELETE("/thing", RequireRole("admin", "editor"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
		body   string
	}{
		{name: "missing", method: http.MethodGet, path: "/me", want: http.StatusUnauthorized},
		{name: "malformed", method: http.MethodGet, path: "/me", header: "Token abc", want: http.StatusUnauthorized},
		{name: "invalid", method: http.MethodGet, path: "/me", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer", method: http.MethodGet, path: "/me", header: "Bearer user-token", want: http.StatusOK, body: "u2"},
		{name: "query token", method: http.MethodGet, path: "/me?token=admin-token", want: http.StatusOK, body: "u1"},
		{name: "role denied", method: http.MethodDelete, path: "/thing", header: "Bearer user-token", want: http.StatusForbidden},
		{name: "role allowed", method: http.MethodDelete, path: "/thing", header: "Bearer admin-token", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestTrace_EchoesRequestID(t *testing.T) {
	r := newEngine(Trace())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-42", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))
}

type memIdempotency struct {
	records map[string]*postgres.IdempotencyReplay
	hashes  map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{
		records: map[string]*postgres.IdempotencyReplay{},
		hashes:  map[string]string{},
	}
}

func (m *memIdempotency) AcquireKey(_ context.Context, key, _, _, requestHash string) (*postgres.IdempotencyReplay, error) {
	if h, ok := m.hashes[key]; ok {
		if h != requestHash {
			return nil, apperror.NewIdempotencyMismatch(key)
		}
		if r := m.records[key]; r != nil {
			return r, nil
		}
		return nil, apperror.NewIdempotencyConflict(key)
	}
	m.hashes[key] = requestHash
	return nil, nil
}

func (m *memIdempotency) CompleteKey(_ context.Context, key string, status int, contentType string, body []byte) error {
	m.records[key] = &postgres.IdempotencyReplay{StatusCode: status, ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newMemIdempotency()
	calls := 0
	r := newEngine()
	r.POST("/orders", Idempotency(store), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"n": calls})
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set(HeaderIdempotencyKey, "k1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"a":1}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := send(`{"a":1}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, calls)

	mismatch := send(`{"a":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, mismatch.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_CapturesErrorResponses(t *testing.T) {
	store := newMemIdempotency()
	r := newEngine()
	r.POST("/orders", Idempotency(store), func(c *gin.Context) {
		_ = c.Error(apperror.NewInvalidInput("items are required"))
		c.Abort()
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	req.Header.Set(HeaderIdempotencyKey, "k2")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	stored := store.records["k2"]
	require.NotNil(t, stored)
	assert.Equal(t, http.StatusBadRequest, stored.StatusCode)
	assert.Contains(t, string(stored.Body), apperror.CodeInvalidInput)
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	store := newMemIdempotency()
	r := newEngine()
	r.POST("/orders", Idempotency(store), func(c *gin.Context) { c.Status(http.StatusCreated) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, store.hashes)
}
