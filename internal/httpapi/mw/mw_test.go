package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"

	"github.com/nikbrunner/popmark/internal/logger"
)

func TestLog_RecordsStatusAndBytes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Log(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tags", nil))

	assert.Equal(t, logs.Len(), 1)
	entry := logs.All()[0]
	assert.Equal(t, entry.Level, zapcore.InfoLevel)
	fields := entry.ContextMap()
	assert.Equal(t, fields["status"], int64(http.StatusTeapot))
	assert.Equal(t, fields["bytes"], int64(3))
	assert.Equal(t, fields["path"], "/api/tags")
}

func TestLog_DefaultsToOKAndHealthzIsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Log(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entry := logs.All()[0]
	assert.Equal(t, entry.Level, zapcore.DebugLevel)
	assert.Equal(t, entry.ContextMap()["status"], int64(http.StatusOK))
}

func TestLog_UsesRoutePattern(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := chi.NewRouter()
	r.Use(Log(logger.FromZap(zap.New(core))))
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/bookmarks/abc123", nil))

	assert.Equal(t, logs.Len(), 1)
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, fields["route"], "/api/bookmarks/{id}")
	assert.Equal(t, fields["path"], "/api/bookmarks/abc123")
	assert.Equal(t, fields["status"], int64(http.StatusNoContent))
}

func TestLocalOnly(t *testing.T) {
	h := LocalOnly(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := map[string]int{
		"127.0.0.1:5000":   http.StatusNoContent,
		"[::1]:5000":       http.StatusNoContent,
		"192.168.1.2:5000": http.StatusForbidden,
		"garbage":          http.StatusForbidden,
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, rec.Code, want, addr)
	}
}
