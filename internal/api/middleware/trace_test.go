package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)

	var seenTraceID string
	handler := Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seenTraceID)
	assert.Equal(t, seenTraceID, w.Header().Get(shared.TraceIDHeader))

	entries, err := buf.EntriesWithMessage("inside handler")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, seenTraceID, entries[0]["trace_id"])

	started, err := buf.EntriesWithMessage("request started")
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.Equal(t, "/health", started[0]["path"])
}
