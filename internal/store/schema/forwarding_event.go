package schema

import (
	"time"

	"github.com/5satoshi/webapp-sub000/internal/domain"
)

// ForwardingEvent represents the forwarding_events table - one attempted
// relay of a payment through an inbound/outbound channel pair. Rows are
// append-only and never mutated by this service.
type ForwardingEvent struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// InChannel is the short channel id of the inbound leg
	InChannel string `gorm:"column:in_channel;not null;index"`
	// OutChannel is the short channel id of the outbound leg
	OutChannel string `gorm:"column:out_channel;not null;index"`
	// InMsat is the amount offered on the inbound leg, in millisatoshi
	InMsat int64 `gorm:"column:in_msat;not null"`
	// OutMsat is the amount forwarded on the outbound leg, in millisatoshi
	OutMsat int64 `gorm:"column:out_msat;not null"`
	// FeeMsat is the fee earned on a settled forward, in millisatoshi
	FeeMsat int64 `gorm:"column:fee_msat;not null;default:0"`
	// Status is the terminal status of the forward attempt
	Status domain.ForwardStatus `gorm:"column:status;not null;index"`
	// ReceivedTime is when the inbound HTLC arrived
	ReceivedTime time.Time `gorm:"column:received_time;not null;index"`
	// ResolvedTime is when the forward settled or failed
	ResolvedTime *time.Time `gorm:"column:resolved_time"`
}

// TableName specifies the table name for the ForwardingEvent model
func (ForwardingEvent) TableName() string {
	return "forwarding_events"
}
