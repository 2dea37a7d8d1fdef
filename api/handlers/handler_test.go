package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livetagus/fertagus-go/internal/models"
)

type fakeClient struct {
	snapshot models.Snapshot
	health   models.Health
}

func (f *fakeClient) Snapshot() models.Snapshot { return f.snapshot }
func (f *fakeClient) Health() models.Health     { return f.health }

func newTestServer() (*httptest.Server, *fakeClient) {
	client := &fakeClient{
		snapshot: models.Snapshot{
			Trains: map[string]models.TrainOutput{
				"4521": {ID: "4521", Live: true, Delay: 120, Status: "Em circulação"},
			},
			FutureTrains: map[string]string{"4600": "Suprimido"},
		},
		health: models.Health{
			Status:       "online",
			Version:      "3.0.2",
			Timestamp:    time.Now(),
			DayType:      models.DayWeekday,
			ActiveTrains: 1,
		},
	}
	r := mux.NewRouter()
	NewHandler(client).RegisterRoutes(r)
	return httptest.NewServer(r), client
}

func TestHandleSnapshot(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/fertagus")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body, "4521")
	require.Contains(t, body, "futureTrains")

	var train models.TrainOutput
	require.NoError(t, json.Unmarshal(body["4521"], &train))
	assert.Equal(t, 120, train.Delay)
	assert.True(t, train.Live)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var h models.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "online", h.Status)
	assert.Equal(t, models.DayWeekday, h.DayType)
	assert.Equal(t, 1, h.ActiveTrains)
}

func TestHandleNotFound(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/no-such-route")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["status"])
}
