package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusEndpointServesStatusSourceSnapshot(t *testing.T) {
	want := Status{ConnectionCount: 2, ParticipantCount: 3, ComposedStepsPerSecond: 60}
	s, err := New(WithStatusSource(func() Status { return want }))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, want, got)
}

func TestNewRequiresStatusSource(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}
