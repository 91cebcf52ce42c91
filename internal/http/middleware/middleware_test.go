package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*gin.Engine, *test.Hook) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	entry := logrus.NewEntry(logger)

	r := gin.New()
	r.Use(Recovery(entry), Logging(entry))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r, hook
}

func TestLoggingRecordsRequest(t *testing.T) {
	r, hook := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, w.Code)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/ok", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	r, hook := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())

	var panicked bool
	for _, e := range hook.AllEntries() {
		if e.Message == "handler panicked" {
			panicked = true
			assert.Equal(t, "boom", e.Data["panic"])
		}
	}
	assert.True(t, panicked)
}
