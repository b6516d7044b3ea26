package loadgen

import (
	"maps"
	"slices"
	"sync"
)

// Endpoint names used in Stats.
const (
	EndpointPostCouriers  = "POST /couriers"
	EndpointPostOrders    = "POST /orders"
	EndpointPatchCourier  = "PATCH /couriers/{id}"
	EndpointAssignOrders  = "POST /orders/assign"
	EndpointCompleteOrder = "POST /orders/complete"
	EndpointGetCourier    = "GET /couriers/{id}"
)

// StatusTransportError counts requests that got no response.
const StatusTransportError = 0

// Stats counts response statuses per endpoint.
type Stats struct {
	mu     sync.Mutex
	counts map[string]map[int]int
}

func NewStats() *Stats {
	return &Stats{counts: make(map[string]map[int]int)}
}

func (s *Stats) Record(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counts[endpoint] == nil {
		s.counts[endpoint] = make(map[int]int)
	}
	s.counts[endpoint][status]++
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() map[string]map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]map[int]int, len(s.counts))
	for endpoint, byStatus := range s.counts {
		out[endpoint] = maps.Clone(byStatus)
	}
	return out
}

// Endpoints returns the recorded endpoints in lexical order.
func (s *Stats) Endpoints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.counts))
}
