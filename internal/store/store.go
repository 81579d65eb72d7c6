package store

import (
	"context"
	"time"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/period"
	"github.com/5satoshi/webapp-sub000/internal/store/schema"
)

// CategoryShareRow is one node's latest share and rank for one category
type CategoryShareRow struct {
	NodeID   string          `gorm:"column:node_id"`
	Category domain.Category `gorm:"column:category"`
	Share    *float64        `gorm:"column:share"`
	Rank     *int64          `gorm:"column:rank"`
}

// NodeAliasRow is a node's most recent non-null display alias
type NodeAliasRow struct {
	NodeID string  `gorm:"column:node_id"`
	Alias  *string `gorm:"column:alias"`
}

// ShareBucketRow is one (bucket, category) aggregate of a node's share
type ShareBucketRow struct {
	Bucket   time.Time       `gorm:"column:bucket"`
	Category domain.Category `gorm:"column:category"`
	Share    *float64        `gorm:"column:share"`
}

// ChannelListRow joins a peer channel snapshot with its forwarding rollup.
// Forward counts sum both directions: a channel is counted for every event
// where it appears as the inbound or the outbound leg.
type ChannelListRow struct {
	PeerID          string `gorm:"column:peer_id"`
	ShortChannelID  string `gorm:"column:short_channel_id"`
	FundingTxID     string `gorm:"column:funding_txid"`
	TotalMsat       int64  `gorm:"column:total_msat"`
	OurMsat         int64  `gorm:"column:our_msat"`
	State           string `gorm:"column:state"`
	FeeBaseMsat     *int64 `gorm:"column:fee_base_msat"`
	FeePPM          *int64 `gorm:"column:fee_ppm"`
	TotalForwards   int64  `gorm:"column:total_forwards"`
	SettledForwards int64  `gorm:"column:settled_forwards"`
}

// ChannelTotalsRow holds per-direction lifetime totals for one channel.
// Nullable sums stay nullable so "no settled rows" is distinguishable
// from a zero-amount sum.
type ChannelTotalsRow struct {
	IncomingAttempts int64      `gorm:"column:incoming_attempts"`
	IncomingSettled  int64      `gorm:"column:incoming_settled"`
	IncomingMsat     *int64     `gorm:"column:incoming_msat"`
	OutgoingAttempts int64      `gorm:"column:outgoing_attempts"`
	OutgoingSettled  int64      `gorm:"column:outgoing_settled"`
	OutgoingMsat     *int64     `gorm:"column:outgoing_msat"`
	FeeMsat          *int64     `gorm:"column:fee_msat"`
	FirstSettled     *time.Time `gorm:"column:first_settled"`
	LastSettled      *time.Time `gorm:"column:last_settled"`
}

// EdgeShareRow is the latest share of one directed edge touching our node
type EdgeShareRow struct {
	Source      string   `gorm:"column:source"`
	Destination string   `gorm:"column:destination"`
	Share       *float64 `gorm:"column:share"`
}

// Store defines the warehouse query-execution capability consumed by the
// aggregators. Every method is read-only and every query is parameterized.
//
//go:generate mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// TopNodeIDsByCategory returns the limit best nodes by latest share in
	// one category, ordered share DESC, rank ASC NULLS LAST, node id ASC
	TopNodeIDsByCategory(ctx context.Context, category domain.Category, limit int) ([]CategoryShareRow, error)
	// LatestSharesByNode returns the latest observation per (node, category)
	// for the given nodes across all categories, in no particular order
	LatestSharesByNode(ctx context.Context, nodeIDs []string) ([]CategoryShareRow, error)
	// LatestAliases returns each node's most recent non-null alias
	LatestAliases(ctx context.Context, nodeIDs []string) ([]NodeAliasRow, error)

	// ShareTimeline returns per-bucket mean shares for one node, grouped by
	// the given granularity, buckets ascending
	ShareTimeline(ctx context.Context, nodeID string, granularity period.Granularity, start, end time.Time) ([]ShareBucketRow, error)
	// LatestRank returns the rank of the node's most recent observation in
	// one category; found is false when the node was never observed
	LatestRank(ctx context.Context, nodeID string, category domain.Category) (rank *int64, found bool, err error)
	// RankBefore returns the rank of the most recent observation strictly
	// before the given time
	RankBefore(ctx context.Context, nodeID string, category domain.Category, before time.Time) (rank *int64, found bool, err error)

	// ListChannelsWithForwardStats returns every peer channel joined with
	// its lifetime forwarding rollup
	ListChannelsWithForwardStats(ctx context.Context) ([]ChannelListRow, error)
	// GetChannel returns one peer channel snapshot, nil when absent
	GetChannel(ctx context.Context, shortChannelID string) (*schema.PeerChannel, error)
	// ChannelForwardTotals returns per-direction lifetime totals for one
	// channel; the row is all-zero (not nil) when no events match
	ChannelForwardTotals(ctx context.Context, shortChannelID string) (*ChannelTotalsRow, error)
	// LatestEdgeShares returns the latest share of every directed edge
	// touching the given node in one category
	LatestEdgeShares(ctx context.Context, nodeID string, category domain.Category) ([]EdgeShareRow, error)
}
