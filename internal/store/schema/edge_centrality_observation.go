package schema

import (
	"time"

	"github.com/5satoshi/webapp-sub000/internal/domain"
)

// EdgeCentralityObservation represents the edge_centrality_observations
// table - like CentralityObservation but keyed by a directed (source,
// destination) node pair. Used to compute per-link directional imbalance.
type EdgeCentralityObservation struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Source is the public key of the edge's source node
	Source string `gorm:"column:source;not null;index:idx_edge_centrality_pair"`
	// Destination is the public key of the edge's destination node
	Destination string `gorm:"column:destination;not null;index:idx_edge_centrality_pair"`
	// Category is the payment-size bucket the observation belongs to
	Category domain.Category `gorm:"column:category;not null"`
	// Share is the fraction of cheapest routes passing through the edge
	Share *float64 `gorm:"column:share"`
	// Rank is the 1-based position among all edges; nil when unranked
	Rank *int64 `gorm:"column:rank"`
	// ObservedAt is the snapshot timestamp
	ObservedAt time.Time `gorm:"column:observed_at;not null;index"`
}

// TableName specifies the table name for the EdgeCentralityObservation model
func (EdgeCentralityObservation) TableName() string {
	return "edge_centrality_observations"
}
