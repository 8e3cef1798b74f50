package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/service"
)

func newTraceTestHandler() *Handler {
	return NewHandler(&service.Services{}, config.Server{}, logger.Nop())
}

func TestWithTraceID_GeneratesID(t *testing.T) {
	h := newTraceTestHandler()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(rr, req)

	traceID := rr.Header().Get(traceIDHeader)
	require.NotEmpty(t, traceID)

	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
}

func TestWithTraceID_PropagatesIncomingID(t *testing.T) {
	h := newTraceTestHandler()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceIDHeader, "incoming-trace")
	rr := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(rr, req)

	assert.Equal(t, "incoming-trace", rr.Header().Get(traceIDHeader))
}

func TestWithTraceID_UniquePerRequest(t *testing.T) {
	h := newTraceTestHandler()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	first := httptest.NewRecorder()
	second := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	h.withTraceID(next).ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEqual(t, first.Header().Get(traceIDHeader), second.Header().Get(traceIDHeader))
}
