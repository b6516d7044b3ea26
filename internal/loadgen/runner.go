// Package loadgen replays the client workflow against a running dispatch service:
// import a courier and an order, patch a random courier, assign, complete a random
// pair and read a random profile.
package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	BaseURL    string
	Workers    int
	Iterations int
	Timeout    time.Duration
	// Seed makes the random choices of a run reproducible.
	Seed uint64
}

// Runner executes the workflow from several workers sharing one Sequence.
type Runner struct {
	cfg    Config
	client *fasthttp.Client
	seq    *Sequence
	stats  *Stats
	logger *slog.Logger
}

// DefaultTimeout applies when Config.Timeout is not set.
const DefaultTimeout = 5 * time.Second

func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Runner{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:                "courierdispatch-loadgen",
			MaxConnsPerHost:     max(cfg.Workers, 1) * 2,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		seq:    &Sequence{},
		stats:  NewStats(),
		logger: logger.With("component", "loadgen"),
	}
}

func (r *Runner) Stats() *Stats { return r.stats }

func (r *Runner) Sequence() *Sequence { return r.seq }

// Run starts the workers and waits until each has done its iterations or ctx ends.
// Non-2xx responses are counted, not treated as failures.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := range r.cfg.Workers {
		rnd := rand.New(rand.NewPCG(r.cfg.Seed, uint64(w)))
		g.Go(func() error {
			for range r.cfg.Iterations {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.workflow(rnd)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) workflow(rnd *rand.Rand) {
	courierID := r.seq.NextCourier()
	r.send(EndpointPostCouriers, fasthttp.MethodPost, "/couriers", map[string]any{
		"data": []any{randomCourier(rnd, courierID)},
	})

	orderID := r.seq.NextOrder()
	r.send(EndpointPostOrders, fasthttp.MethodPost, "/orders", map[string]any{
		"data": []any{randomOrder(rnd, orderID)},
	})

	r.send(EndpointPatchCourier, fasthttp.MethodPatch, fmt.Sprintf("/couriers/%d", r.randomCourier(rnd)),
		map[string]any{"regions": randomRegions(rnd)})

	r.send(EndpointAssignOrders, fasthttp.MethodPost, "/orders/assign", map[string]any{
		"courier_id": courierID,
	})

	r.send(EndpointCompleteOrder, fasthttp.MethodPost, "/orders/complete", map[string]any{
		"courier_id":    r.randomCourier(rnd),
		"order_id":      1 + rnd.Int64N(r.seq.Orders()),
		"complete_time": time.Now().UTC().Format(time.RFC3339Nano),
	})

	r.send(EndpointGetCourier, fasthttp.MethodGet, fmt.Sprintf("/couriers/%d", r.randomCourier(rnd)), nil)
}

func (r *Runner) randomCourier(rnd *rand.Rand) int64 {
	return 1 + rnd.Int64N(r.seq.Couriers())
}

func (r *Runner) send(endpoint, method, path string, body any) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.cfg.BaseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			r.logger.Error("Failed to encode request", "endpoint", endpoint, "error", err)
			return
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if err := r.client.DoTimeout(req, resp, r.cfg.Timeout); err != nil {
		r.logger.Debug("Request failed", "endpoint", endpoint, "error", err)
		r.stats.Record(endpoint, StatusTransportError)
		return
	}
	r.stats.Record(endpoint, resp.StatusCode())
}

func randomCourier(rnd *rand.Rand, id int64) map[string]any {
	return map[string]any{
		"courier_id":    id,
		"courier_type":  []string{"foot", "bike", "car"}[rnd.IntN(3)],
		"regions":       randomRegions(rnd),
		"working_hours": []string{randomWindow(rnd)},
	}
}

func randomOrder(rnd *rand.Rand, id int64) map[string]any {
	return map[string]any{
		"order_id":       id,
		"weight":         float64(1+rnd.IntN(10)) - 0.5,
		"region":         1 + rnd.IntN(20),
		"delivery_hours": []string{randomWindow(rnd)},
	}
}

func randomRegions(rnd *rand.Rand) []int {
	regions := make([]int, 4)
	for i := range regions {
		regions[i] = 1 + rnd.IntN(20)
	}
	return regions
}

// randomWindow returns a four hour window starting between 10:00 and 19:00.
func randomWindow(rnd *rand.Rand) string {
	start := 10 + rnd.IntN(10)
	return fmt.Sprintf("%02d:00-%02d:00", start, start+4)
}
