package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when the warehouse query capability
	// could not be obtained; callers must not confuse it with "no data"
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidNodeID is returned when a caller-supplied node identifier
	// fails validation before any query is issued
	ErrInvalidNodeID = errors.New("invalid node id")

	// ErrInvalidCategory is returned when a caller-supplied payment-size
	// category is not one of micro, common, macro
	ErrInvalidCategory = errors.New("invalid category")
)
