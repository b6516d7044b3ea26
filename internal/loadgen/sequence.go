package loadgen

import "sync/atomic"

// Sequence hands out courier and order ids for one run. Workers share it, so ids are
// unique across the run and dense from 1.
type Sequence struct {
	couriers atomic.Int64
	orders   atomic.Int64
}

func (s *Sequence) NextCourier() int64 { return s.couriers.Add(1) }

func (s *Sequence) NextOrder() int64 { return s.orders.Add(1) }

// Couriers returns the last courier id handed out.
func (s *Sequence) Couriers() int64 { return s.couriers.Load() }

// Orders returns the last order id handed out.
func (s *Sequence) Orders() int64 { return s.orders.Load() }
