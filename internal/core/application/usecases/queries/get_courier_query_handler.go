package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"

	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/ports"
	"courierdispatch/internal/pkg/errs"

	"github.com/georgysavva/scany/sqlscan"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	// BasePayment is paid for every delivered order before the type coefficient.
	BasePayment = 500

	// RatingHorizonSeconds is the average delivery time at which the rating drops to zero.
	RatingHorizonSeconds = 60 * 60

	// MaxRating is the rating of instant deliveries.
	MaxRating = 5
)

type courierRow struct {
	ID           int64          `db:"id"`
	Type         string         `db:"type"`
	Regions      pq.Int64Array  `db:"regions"`
	WorkingHours pq.StringArray `db:"working_hours"`
}

type deliveryStatsRow struct {
	Completed int64           `db:"completed"`
	Timed     int64           `db:"timed"`
	MinAvg    sql.NullFloat64 `db:"min_avg"`
}

// GetCourierQueryHandler builds courier profiles from the couriers and assignments
// tables, serving repeated reads from the profile cache when one is configured.
type GetCourierQueryHandler struct {
	db    *gorm.DB
	cache ports.CourierProfileCache
}

// NewGetCourierQueryHandler creates a profile handler. cache may be nil.
func NewGetCourierQueryHandler(db *gorm.DB, cache ports.CourierProfileCache) GetCourierQueryHandler {
	return GetCourierQueryHandler{db: db, cache: cache}
}

// Handle returns the courier profile.
// Returns errs.ErrObjectNotFound for an unknown courier.
//
// Earnings are the number of completed deliveries times BasePayment times the
// earnings coefficient of the courier's current type. The rating takes, for every
// region the courier serves, the average delivery time of the courier's completed
// deliveries there, and scales the smallest average t as (3600 - t) / 3600 * 5 with
// t clamped to [0, 3600], rounded to two decimals. Only this courier's deliveries
// enter the averages; deliveries of other couriers in the same regions are ignored.
func (h GetCourierQueryHandler) Handle(ctx context.Context, query GetCourierQuery) (GetCourierQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierQueryResponse{}, err
	}

	if profile, ok := h.cached(ctx, query.CourierID()); ok {
		return profile, nil
	}

	sqlDB, err := h.db.WithContext(ctx).DB()
	if err != nil {
		return GetCourierQueryResponse{}, err
	}

	var row courierRow
	err = sqlscan.Get(ctx, sqlDB, &row, `
		SELECT id, type, regions, working_hours
		FROM couriers
		WHERE id = $1
	`, query.CourierID())
	if sqlscan.NotFound(err) {
		return GetCourierQueryResponse{}, errs.NewObjectNotFoundError("courier", query.CourierID())
	}
	if err != nil {
		return GetCourierQueryResponse{}, err
	}

	var stats deliveryStatsRow
	err = sqlscan.Get(ctx, sqlDB, &stats, `
		SELECT
			(SELECT count(*) FROM assignments
			 WHERE courier_id = $1 AND complete_time IS NOT NULL) AS completed,
			(SELECT count(*) FROM assignments
			 WHERE courier_id = $1 AND complete_time IS NOT NULL AND delivery_time <> 0) AS timed,
			(SELECT min(per_region.avg_time) FROM (
				SELECT avg(a.delivery_time)::float8 AS avg_time
				FROM assignments a
				JOIN orders o ON o.id = a.order_id
				WHERE a.courier_id = $1
				  AND a.complete_time IS NOT NULL
				  AND o.region = ANY($2::bigint[])
				GROUP BY o.region
			) per_region) AS min_avg
	`, query.CourierID(), row.Regions)
	if err != nil {
		return GetCourierQueryResponse{}, err
	}

	profile := GetCourierQueryResponse{
		ID:           row.ID,
		Type:         row.Type,
		Regions:      []int64(row.Regions),
		WorkingHours: []string(row.WorkingHours),
	}

	if stats.Timed > 0 && stats.MinAvg.Valid {
		rating := Rating(stats.MinAvg.Float64)
		earnings := Earnings(stats.Completed, courier.Type(row.Type))
		profile.Rating = &rating
		profile.Earnings = &earnings
	}

	// A write committing between the reads above and this store leaves its invalidation
	// overwritten; the entry stays stale until the cache TTL expires.
	h.store(ctx, profile)
	return profile, nil
}

// Rating converts the smallest per-region average delivery time, in seconds, to a
// score between 0 and 5.
func Rating(minAverageSeconds float64) float64 {
	t := math.Min(math.Max(minAverageSeconds, 0), RatingHorizonSeconds)
	rating := (RatingHorizonSeconds - t) / RatingHorizonSeconds * MaxRating
	return math.Round(rating*100) / 100
}

// Earnings is the pay for completed deliveries of a courier of the given type.
func Earnings(completed int64, courierType courier.Type) int64 {
	return completed * BasePayment * int64(courierType.EarningsCoefficient())
}

func (h GetCourierQueryHandler) cached(ctx context.Context, courierID int64) (GetCourierQueryResponse, bool) {
	if h.cache == nil {
		return GetCourierQueryResponse{}, false
	}

	data, err := h.cache.Get(ctx, courierID)
	if err != nil {
		return GetCourierQueryResponse{}, false
	}

	var profile GetCourierQueryResponse
	if err = json.Unmarshal(data, &profile); err != nil {
		return GetCourierQueryResponse{}, false
	}
	return profile, true
}

func (h GetCourierQueryHandler) store(ctx context.Context, profile GetCourierQueryResponse) {
	if h.cache == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	_ = h.cache.Set(ctx, profile.ID, data)
}
