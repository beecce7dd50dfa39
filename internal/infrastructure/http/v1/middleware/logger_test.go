package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kitchenledger/pkg/logger"
)

func TestLogger_RedactsTokenFromQuery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(Logger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}))
	r.GET("/stream", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/stream?token=eyJhbGciOi.secret.sig&since=5", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	query := entries[0].ContextMap()["query"]
	assert.Equal(t, "since=5&token=REDACTED", query)
	assert.NotContains(t, query, "secret")
}

func TestRedactQuery(t *testing.T) {
	assert.Equal(t, "", redactQuery(""))
	assert.Equal(t, "page=2&search=rye", redactQuery("page=2&search=rye"))
	assert.Equal(t, "token=REDACTED", redactQuery("token=abc&token=def"))
	assert.Equal(t, "[unparsable]", redactQuery("token=%zz"))
}
