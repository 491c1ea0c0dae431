package cpm

import "errors"

// Failure classes reported by the engine. Errors returned from this package
// wrap one of these and can be matched with errors.Is.
var (
	// ErrConfiguration reports malformed or missing parameters at construction.
	ErrConfiguration = errors.New("cpm: configuration error")
	// ErrIndex reports a coordinate outside the grid.
	ErrIndex = errors.New("cpm: coordinate out of range")
	// ErrLookup reports an unknown cell identifier or kind.
	ErrLookup = errors.New("cpm: unknown cell")
	// ErrState reports a mutation that the current pixel state does not allow.
	ErrState = errors.New("cpm: invalid pixel state")
	// ErrResourceExhausted reports that no background pixel is left for seeding.
	ErrResourceExhausted = errors.New("cpm: no background pixels left")
	// ErrInvariant reports that registry bookkeeping and the grid disagree.
	// It always indicates a defect.
	ErrInvariant = errors.New("cpm: internal invariant violation")
)
