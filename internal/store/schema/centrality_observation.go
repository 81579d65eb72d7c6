package schema

import (
	"time"

	"github.com/5satoshi/webapp-sub000/internal/domain"
)

// CentralityObservation represents the centrality_observations table - a
// periodic snapshot of one node's shortest-path share and rank for one
// payment-size category. Shares are stored as fractions in [0,1]; scaling
// to percentages happens only at the presentation boundary.
type CentralityObservation struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NodeID is the public key of the observed node
	NodeID string `gorm:"column:node_id;not null;index:idx_centrality_node_category"`
	// Category is the payment-size bucket the observation belongs to
	Category domain.Category `gorm:"column:category;not null;index:idx_centrality_node_category"`
	// Share is the fraction of cheapest routes passing through the node
	Share *float64 `gorm:"column:share"`
	// Rank is the 1-based position among all nodes; nil when unranked
	Rank *int64 `gorm:"column:rank"`
	// Alias is the node's display alias at observation time, if announced
	Alias *string `gorm:"column:alias"`
	// ObservedAt is the snapshot timestamp
	ObservedAt time.Time `gorm:"column:observed_at;not null;index"`
}

// TableName specifies the table name for the CentralityObservation model
func (CentralityObservation) TableName() string {
	return "centrality_observations"
}
