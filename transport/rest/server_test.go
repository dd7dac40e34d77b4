package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/caro-backend/internal/relay"
)

type stubStatus struct {
	report relay.StatusReport
}

func (that *stubStatus) Snapshot() relay.StatusReport {
	return that.report
}

func TestPingHandler(t *testing.T) {
	recorder := httptest.NewRecorder()

	pingHandler(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestStatusHandler(t *testing.T) {
	// Given: a relay reporting one active room
	status := &stubStatus{report: relay.StatusReport{
		Running:     true,
		Rooms:       2,
		ActiveRooms: 1,
		Connections: 3,
	}}

	recorder := httptest.NewRecorder()

	// When: the status endpoint is hit
	statusHandler(status)(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))

	// Then: the snapshot comes back as JSON
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var report relay.StatusReport
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
	assert.Equal(t, status.report, report)
}
