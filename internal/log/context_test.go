package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextIDs_RoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCycleID(ctx, "cycle-7")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "cycle-7", CycleIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, CycleIDFromContext(nil))
}

func TestWithContext_AddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithCycleID(ctx, "cycle-1")
	l := WithContext(ctx, base)
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry[FieldRequestID])
	assert.Equal(t, "cycle-1", entry[FieldCycleID])
}

func TestWithContext_NoFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	l := WithContext(context.Background(), base)
	l.Info().Msg("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasReq := entry[FieldRequestID]
	assert.False(t, hasReq)
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"LocaleMerching", "LocaleMerchingMissingSubs"},
		Tags(TagLocaleMerching, TagLocaleMerchingMissingSubs))
	assert.Empty(t, Tags())
}

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	Reconfigure(Config{Level: "info", Output: &buf, Service: "test"})
	t.Cleanup(func() { Reconfigure(Config{}) })

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "request.handled", entry[FieldEvent])
	assert.Equal(t, "/healthz", entry[FieldPath])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "test", entry["service"])
}
