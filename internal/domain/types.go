package domain

import (
	"regexp"
)

// Category represents a fixed payment-size bucket used to compute
// separate centrality rankings
type Category string

const (
	CategoryMicro  Category = "micro"
	CategoryCommon Category = "common"
	CategoryMacro  Category = "macro"
)

// Categories lists every payment-size category in presentation order
var Categories = []Category{CategoryMicro, CategoryCommon, CategoryMacro}

// IsValidCategory checks if a category is valid
func IsValidCategory(category Category) bool {
	return category == CategoryMicro ||
		category == CategoryCommon ||
		category == CategoryMacro
}

// PeriodKey represents a coarse dashboard period selector
type PeriodKey string

const (
	PeriodDay     PeriodKey = "day"
	PeriodWeek    PeriodKey = "week"
	PeriodMonth   PeriodKey = "month"
	PeriodQuarter PeriodKey = "quarter"
)

// IsValidPeriodKey checks if a period key is valid
func IsValidPeriodKey(key PeriodKey) bool {
	return key == PeriodDay ||
		key == PeriodWeek ||
		key == PeriodMonth ||
		key == PeriodQuarter
}

// nodeIDPattern matches a compressed secp256k1 public key in hex
// (02 or 03 prefix followed by 64 hex characters)
var nodeIDPattern = regexp.MustCompile(`^0[23][0-9a-f]{64}$`)

// NodeID represents a routing-network node identifier (public key hex string)
type NodeID string

// Valid reports whether the node ID is a well-formed compressed public key
func (n NodeID) Valid() bool {
	return nodeIDPattern.MatchString(string(n))
}

func (n NodeID) String() string {
	return string(n)
}

// ChannelStatus represents the presentation-level lifecycle status of a channel
type ChannelStatus string

const (
	ChannelStatusActive   ChannelStatus = "active"
	ChannelStatusPending  ChannelStatus = "pending"
	ChannelStatusInactive ChannelStatus = "inactive"
)

// ForwardStatus represents the terminal status of a forwarding event
type ForwardStatus string

const (
	ForwardStatusSettled     ForwardStatus = "settled"
	ForwardStatusLocalFailed ForwardStatus = "local_failed"
	ForwardStatusFailed      ForwardStatus = "failed"
	ForwardStatusOffered     ForwardStatus = "offered"
)
