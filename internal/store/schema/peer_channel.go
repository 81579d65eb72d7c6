package schema

import (
	"time"

	"gorm.io/datatypes"
)

// StateChange is one entry of a channel's state-transition history,
// embedded in the peer_channels row as an ordered JSON array
type StateChange struct {
	Timestamp time.Time `json:"timestamp"`
	NewState  string    `json:"new_state"`
}

// PeerChannel represents the peer_channels table - the current snapshot of
// a bilateral channel to a peer, including its lifecycle history. The
// warehouse ingestion process owns writes; this service only reads.
type PeerChannel struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PeerID is the public key of the remote peer
	PeerID string `gorm:"column:peer_id;not null;index"`
	// ShortChannelID is the channel identifier used by forwarding events
	ShortChannelID string `gorm:"column:short_channel_id;not null;uniqueIndex"`
	// FundingTxID references the channel funding transaction
	FundingTxID string `gorm:"column:funding_txid;not null"`
	// TotalMsat is the channel capacity in millisatoshi
	TotalMsat int64 `gorm:"column:total_msat;not null"`
	// OurMsat is the locally owned balance in millisatoshi
	OurMsat int64 `gorm:"column:our_msat;not null"`
	// State is the raw lifecycle state name reported by the node
	State string `gorm:"column:state;not null"`
	// FeeBaseMsat is our advertised base fee for this channel, if known
	FeeBaseMsat *int64 `gorm:"column:fee_base_msat"`
	// FeePPM is our advertised proportional fee in parts per million, if known
	FeePPM *int64 `gorm:"column:fee_ppm"`
	// StateChanges is the ordered state-transition history
	StateChanges datatypes.JSON `gorm:"column:state_changes;type:jsonb"`
	// UpdatedAt is when the snapshot row was last refreshed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the PeerChannel model
func (PeerChannel) TableName() string {
	return "peer_channels"
}
