package aggregate

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/logger"
	"github.com/5satoshi/webapp-sub000/internal/period"
	"github.com/5satoshi/webapp-sub000/internal/store"
)

// SharePoint is one bucket of a node's share trend. Values are percentages
// in [0,100]; a category with no observation in the bucket is zero-filled
// so the chart renders a continuous line. Buckets where no category has an
// observation are omitted entirely.
type SharePoint struct {
	Date   time.Time `json:"date"`
	Micro  float64   `json:"micro"`
	Common float64   `json:"common"`
	Macro  float64   `json:"macro"`
}

// RankDelta is a category's latest rank and its change over the period.
// Both are nil when unknown; rank unknown is never coerced to 0.
type RankDelta struct {
	LatestRank *int64 `json:"latest_rank"`
	RankChange *int64 `json:"rank_change"`
}

// CategoryRanks holds one node's rank movement per payment-size category
type CategoryRanks struct {
	Micro  RankDelta `json:"micro"`
	Common RankDelta `json:"common"`
	Macro  RankDelta `json:"macro"`
}

// Timeseries computes per-bucket trend series for a single node
type Timeseries struct {
	store store.Store
	clock func() time.Time
}

// NewTimeseries creates a new timeseries aggregator
func NewTimeseries(s store.Store) *Timeseries {
	return &Timeseries{store: s, clock: time.Now}
}

// NodeShareTimeline returns the node's per-bucket share trend over the
// rolling window derived from the period key, buckets ascending by date
func (t *Timeseries) NodeShareTimeline(ctx context.Context, nodeID string, key domain.PeriodKey) ([]SharePoint, error) {
	window := period.ResolveBuckets(key, t.clock())

	rows, err := t.store.ShareTimeline(ctx, nodeID, window.Granularity, window.Start, window.End)
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("operation", "NodeShareTimeline"),
			zap.String("node_id", nodeID),
			zap.String("period", string(key)),
		)
		return nil, err
	}

	// Pivot (bucket, category) rows into one point per bucket, zero-filling
	// categories the bucket has no observation for
	points := make([]SharePoint, 0, window.Buckets)
	var current *SharePoint
	for _, row := range rows {
		if current == nil || !current.Date.Equal(row.Bucket) {
			points = append(points, SharePoint{Date: row.Bucket})
			current = &points[len(points)-1]
		}

		value := SharePercent(CoalesceFloat(row.Share))
		switch row.Category {
		case domain.CategoryMicro:
			current.Micro = value
		case domain.CategoryCommon:
			current.Common = value
		case domain.CategoryMacro:
			current.Macro = value
		}
	}

	return points, nil
}

// NodeCategoryRanks returns the node's latest rank and rank change over
// the period for every category. Categories resolve independently and
// concurrently; a failed category degrades to unknown without affecting
// the others.
func (t *Timeseries) NodeCategoryRanks(ctx context.Context, nodeID string, key domain.PeriodKey) CategoryRanks {
	window := period.Resolve(key, t.clock())

	deltas := make([]RankDelta, len(domain.Categories))

	pool := pond.NewPool(len(domain.Categories), pond.WithContext(ctx))
	for i, category := range domain.Categories {
		pool.Submit(func() {
			deltas[i] = t.categoryRankDelta(ctx, nodeID, category, window.Start)
		})
	}
	pool.StopAndWait()

	return CategoryRanks{
		Micro:  deltas[0],
		Common: deltas[1],
		Macro:  deltas[2],
	}
}

// categoryRankDelta resolves one category's rank movement. "latest" is the
// most recent observation irrespective of the period; "period start" is
// the most recent observation strictly before the window start.
func (t *Timeseries) categoryRankDelta(ctx context.Context, nodeID string, category domain.Category, periodStart time.Time) RankDelta {
	latest, found, err := t.store.LatestRank(ctx, nodeID, category)
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("operation", "NodeCategoryRanks"),
			zap.String("node_id", nodeID),
			zap.String("category", string(category)),
		)
		return RankDelta{}
	}
	if !found || latest == nil {
		return RankDelta{}
	}

	previous, found, err := t.store.RankBefore(ctx, nodeID, category, periodStart)
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("operation", "NodeCategoryRanks"),
			zap.String("node_id", nodeID),
			zap.String("category", string(category)),
			zap.String("step", "period_start"),
		)
		return RankDelta{LatestRank: latest}
	}
	if !found || previous == nil {
		return RankDelta{LatestRank: latest}
	}

	change := *latest - *previous
	return RankDelta{LatestRank: latest, RankChange: &change}
}
