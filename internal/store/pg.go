package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/period"
	"github.com/5satoshi/webapp-sub000/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Open connects to the warehouse, retrying the initial connection with
// exponential backoff. The handle is created once at process start and
// injected into every consumer; see domain.ErrStoreUnavailable for the
// failure surfaced to callers when this never succeeded.
func Open(dsn string, retries int) (*gorm.DB, error) {
	var db *gorm.DB

	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries)) //nolint:gosec,G115
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return db, nil
}

// ConfigureConnectionPool configures the connection pool settings for a
// GORM database connection
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		normalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// normalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values. database/sql treats MaxOpenConns=0 as "unlimited" and
// MaxIdleConns=0 as "no idle connections", neither of which we want.
func normalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Migrate creates or updates the warehouse tables. The ingestion process
// owns the production schema; this is used by local development and tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.ForwardingEvent{},
		&schema.PeerChannel{},
		&schema.CentralityObservation{},
		&schema.EdgeCentralityObservation{},
	)
}

// TopNodeIDsByCategory returns the limit best nodes by latest share in one
// category. Each node contributes its single most recent observation; the
// outer ordering is the total deterministic comparator reused when the
// merged cross-category rows are re-sorted.
func (s *pgStore) TopNodeIDsByCategory(ctx context.Context, category domain.Category, limit int) ([]CategoryShareRow, error) {
	var rows []CategoryShareRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT node_id, category, share, rank
		FROM (
			SELECT DISTINCT ON (node_id) node_id, category, share, rank
			FROM centrality_observations
			WHERE category = ?
			ORDER BY node_id, observed_at DESC, id DESC
		) latest
		ORDER BY share DESC NULLS LAST, rank ASC NULLS LAST, node_id ASC
		LIMIT ?
	`, string(category), limit).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get top nodes for category %s: %w", category, err)
	}

	return rows, nil
}

// LatestSharesByNode returns the latest observation per (node, category)
// for the given nodes across all categories
func (s *pgStore) LatestSharesByNode(ctx context.Context, nodeIDs []string) ([]CategoryShareRow, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	var rows []CategoryShareRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (node_id, category) node_id, category, share, rank
		FROM centrality_observations
		WHERE node_id IN ?
		ORDER BY node_id, category, observed_at DESC, id DESC
	`, nodeIDs).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get latest shares: %w", err)
	}

	return rows, nil
}

// LatestAliases returns each node's most recent non-null alias across any
// category
func (s *pgStore) LatestAliases(ctx context.Context, nodeIDs []string) ([]NodeAliasRow, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	var rows []NodeAliasRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (node_id) node_id, alias
		FROM centrality_observations
		WHERE node_id IN ? AND alias IS NOT NULL
		ORDER BY node_id, observed_at DESC, id DESC
	`, nodeIDs).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get latest aliases: %w", err)
	}

	return rows, nil
}

// truncUnit maps a bucket granularity to its date_trunc unit. The unit is
// interpolated into SQL text, so it must come from this closed mapping and
// never from caller input.
func truncUnit(granularity period.Granularity) string {
	switch granularity {
	case period.GranularityWeek:
		return "week"
	case period.GranularityMonth:
		return "month"
	case period.GranularityQuarter:
		return "quarter"
	default:
		return "day"
	}
}

// ShareTimeline returns per-bucket mean shares for one node. Null shares
// are excluded, so a bucket only appears when at least one category has a
// real observation in it.
func (s *pgStore) ShareTimeline(ctx context.Context, nodeID string, granularity period.Granularity, start, end time.Time) ([]ShareBucketRow, error) {
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', observed_at) AS bucket, category, AVG(share) AS share
		FROM centrality_observations
		WHERE node_id = ? AND observed_at BETWEEN ? AND ? AND share IS NOT NULL
		GROUP BY bucket, category
		ORDER BY bucket ASC, category ASC
	`, truncUnit(granularity))

	var rows []ShareBucketRow
	err := s.db.WithContext(ctx).Raw(query, nodeID, start, end).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get share timeline: %w", err)
	}

	return rows, nil
}

// rankRow is the single-column result of a rank lookup
type rankRow struct {
	Rank *int64 `gorm:"column:rank"`
}

// LatestRank returns the rank of the node's most recent observation in one
// category, irrespective of any period
func (s *pgStore) LatestRank(ctx context.Context, nodeID string, category domain.Category) (*int64, bool, error) {
	var rows []rankRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT rank
		FROM centrality_observations
		WHERE node_id = ? AND category = ?
		ORDER BY observed_at DESC, id DESC
		LIMIT 1
	`, nodeID, string(category)).Scan(&rows).Error

	if err != nil {
		return nil, false, fmt.Errorf("failed to get latest rank: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	return rows[0].Rank, true, nil
}

// RankBefore returns the rank of the most recent observation strictly
// before the given time
func (s *pgStore) RankBefore(ctx context.Context, nodeID string, category domain.Category, before time.Time) (*int64, bool, error) {
	var rows []rankRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT rank
		FROM centrality_observations
		WHERE node_id = ? AND category = ? AND observed_at < ?
		ORDER BY observed_at DESC, id DESC
		LIMIT 1
	`, nodeID, string(category), before).Scan(&rows).Error

	if err != nil {
		return nil, false, fmt.Errorf("failed to get rank before %s: %w", before.Format(time.RFC3339), err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	return rows[0].Rank, true, nil
}

// ListChannelsWithForwardStats returns every peer channel joined with its
// lifetime forwarding rollup. The rollup unions the channel's appearances
// as the inbound and the outbound leg, so a self-referential event counts
// once per direction.
func (s *pgStore) ListChannelsWithForwardStats(ctx context.Context) ([]ChannelListRow, error) {
	settled := string(domain.ForwardStatusSettled)

	var rows []ChannelListRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			pc.peer_id, pc.short_channel_id, pc.funding_txid,
			pc.total_msat, pc.our_msat, pc.state, pc.fee_base_msat, pc.fee_ppm,
			COALESCE(f.total_forwards, 0) AS total_forwards,
			COALESCE(f.settled_forwards, 0) AS settled_forwards
		FROM peer_channels pc
		LEFT JOIN (
			SELECT channel, SUM(total) AS total_forwards, SUM(settled) AS settled_forwards
			FROM (
				SELECT in_channel AS channel, COUNT(*) AS total,
					COUNT(*) FILTER (WHERE status = ?) AS settled
				FROM forwarding_events
				GROUP BY in_channel
				UNION ALL
				SELECT out_channel, COUNT(*),
					COUNT(*) FILTER (WHERE status = ?)
				FROM forwarding_events
				GROUP BY out_channel
			) legs
			GROUP BY channel
		) f ON f.channel = pc.short_channel_id
		ORDER BY pc.total_msat DESC, pc.short_channel_id ASC
	`, settled, settled).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	return rows, nil
}

// GetChannel returns one peer channel snapshot, nil when absent
func (s *pgStore) GetChannel(ctx context.Context, shortChannelID string) (*schema.PeerChannel, error) {
	var channel schema.PeerChannel
	err := s.db.WithContext(ctx).
		Where("short_channel_id = ?", shortChannelID).
		First(&channel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", shortChannelID, err)
	}

	return &channel, nil
}

// ChannelForwardTotals returns per-direction lifetime totals for one
// channel in a single pass over its events. First/last timestamps only
// consider settled events.
func (s *pgStore) ChannelForwardTotals(ctx context.Context, shortChannelID string) (*ChannelTotalsRow, error) {
	var totals ChannelTotalsRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE in_channel = @id) AS incoming_attempts,
			COUNT(*) FILTER (WHERE in_channel = @id AND status = @settled) AS incoming_settled,
			SUM(in_msat) FILTER (WHERE in_channel = @id AND status = @settled) AS incoming_msat,
			COUNT(*) FILTER (WHERE out_channel = @id) AS outgoing_attempts,
			COUNT(*) FILTER (WHERE out_channel = @id AND status = @settled) AS outgoing_settled,
			SUM(out_msat) FILTER (WHERE out_channel = @id AND status = @settled) AS outgoing_msat,
			SUM(fee_msat) FILTER (WHERE out_channel = @id AND status = @settled) AS fee_msat,
			MIN(received_time) FILTER (WHERE status = @settled) AS first_settled,
			MAX(COALESCE(resolved_time, received_time)) FILTER (WHERE status = @settled) AS last_settled
		FROM forwarding_events
		WHERE in_channel = @id OR out_channel = @id
	`,
		sql.Named("id", shortChannelID),
		sql.Named("settled", string(domain.ForwardStatusSettled)),
	).Scan(&totals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get channel totals for %s: %w", shortChannelID, err)
	}

	return &totals, nil
}

// LatestEdgeShares returns the latest share of every directed edge touching
// the given node in one category
func (s *pgStore) LatestEdgeShares(ctx context.Context, nodeID string, category domain.Category) ([]EdgeShareRow, error) {
	var rows []EdgeShareRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (source, destination) source, destination, share
		FROM edge_centrality_observations
		WHERE (source = @node OR destination = @node) AND category = @category
		ORDER BY source, destination, observed_at DESC, id DESC
	`,
		sql.Named("node", nodeID),
		sql.Named("category", string(category)),
	).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get edge shares: %w", err)
	}

	return rows, nil
}
