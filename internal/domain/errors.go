package domain

import "errors"

// Failure categories shared across modules. Handlers map these to HTTP
// status codes; everything else is treated as an internal error.
var (
	// ErrInvalidInput is returned for requests rejected before any I/O:
	// empty search terms, share counts below 1, unknown industry tags,
	// chart durations below the minimum.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means a search term resolved to no instrument.
	ErrNotFound = errors.New("instrument not found")

	// ErrUnavailable means the upstream market data API could not be
	// reached or returned an unparseable response.
	ErrUnavailable = errors.New("market data unavailable")

	// ErrDuplicateHolding means the resolved ticker is already tracked.
	ErrDuplicateHolding = errors.New("holding already exists")

	// ErrRefreshInProgress means a full refresh is already in flight.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrPersistence wraps holdings store read/write failures.
	ErrPersistence = errors.New("persistence failure")
)
