package loadgen_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"courierdispatch/internal/loadgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingServer struct {
	mu         sync.Mutex
	courierIDs []int64
	bodies     map[string][]map[string]any
}

func (s *recordingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	if r.Method != http.MethodGet {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		s.mu.Lock()
		if r.URL.Path == "/couriers" {
			item := body["data"].([]any)[0].(map[string]any)
			s.courierIDs = append(s.courierIDs, int64(item["courier_id"].(float64)))
		}
		s.bodies[key] = append(s.bodies[key], body)
		s.mu.Unlock()
	}

	switch r.URL.Path {
	case "/couriers", "/orders":
		w.WriteHeader(http.StatusCreated)
	case "/orders/complete":
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func TestRunner_Run(t *testing.T) {
	recorder := &recordingServer{bodies: make(map[string][]map[string]any)}
	server := httptest.NewServer(recorder)
	defer server.Close()

	runner := loadgen.NewRunner(loadgen.Config{
		BaseURL:    server.URL,
		Workers:    3,
		Iterations: 4,
		Timeout:    2 * time.Second,
		Seed:       42,
	}, slog.New(slog.DiscardHandler))

	require.NoError(t, runner.Run(context.Background()))

	stats := runner.Stats().Snapshot()
	assert.Equal(t, map[int]int{http.StatusCreated: 12}, stats[loadgen.EndpointPostCouriers])
	assert.Equal(t, map[int]int{http.StatusCreated: 12}, stats[loadgen.EndpointPostOrders])
	assert.Equal(t, map[int]int{http.StatusOK: 12}, stats[loadgen.EndpointPatchCourier])
	assert.Equal(t, map[int]int{http.StatusOK: 12}, stats[loadgen.EndpointAssignOrders])
	assert.Equal(t, map[int]int{http.StatusBadRequest: 12}, stats[loadgen.EndpointCompleteOrder])
	assert.Equal(t, map[int]int{http.StatusOK: 12}, stats[loadgen.EndpointGetCourier])
	assert.Len(t, runner.Stats().Endpoints(), 6)

	assert.Equal(t, int64(12), runner.Sequence().Couriers())
	assert.Equal(t, int64(12), runner.Sequence().Orders())
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, recorder.courierIDs)

	for _, body := range recorder.bodies["POST /orders/complete"] {
		_, err := time.Parse(time.RFC3339Nano, body["complete_time"].(string))
		assert.NoError(t, err)
	}
}

func TestRunner_TransportErrorsAreCounted(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	runner := loadgen.NewRunner(loadgen.Config{
		BaseURL:    url,
		Workers:    1,
		Iterations: 1,
		Timeout:    time.Second,
	}, slog.New(slog.DiscardHandler))

	require.NoError(t, runner.Run(context.Background()))

	stats := runner.Stats().Snapshot()
	assert.Equal(t, map[int]int{loadgen.StatusTransportError: 1}, stats[loadgen.EndpointPostCouriers])
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := loadgen.NewRunner(loadgen.Config{BaseURL: "http://127.0.0.1:1", Workers: 2, Iterations: 10},
		slog.New(slog.DiscardHandler))

	assert.ErrorIs(t, runner.Run(ctx), context.Canceled)
	assert.Zero(t, runner.Sequence().Couriers())
}

func TestSequence(t *testing.T) {
	var seq loadgen.Sequence

	assert.Equal(t, int64(1), seq.NextCourier())
	assert.Equal(t, int64(2), seq.NextCourier())
	assert.Equal(t, int64(1), seq.NextOrder())
	assert.Equal(t, int64(2), seq.Couriers())
	assert.Equal(t, int64(1), seq.Orders())
}
