package domain

import "errors"

var (
	// ErrSourceUnavailable means the inventory page could not be fetched or held no items.
	ErrSourceUnavailable = errors.New("inventory source unavailable")
	// ErrStoreUnavailable means the reference price store could not be reached in time.
	ErrStoreUnavailable = errors.New("price store unavailable")
	// ErrChunkLookupFailed is logged, never returned, when one exact-lookup chunk fails.
	ErrChunkLookupFailed = errors.New("chunk lookup failed")
	// ErrFallbackLookupFailed is logged, never returned, when one approximate lookup fails.
	ErrFallbackLookupFailed = errors.New("fallback lookup failed")
	// ErrNoItemsExtracted means the fetch succeeded but no usable item survived parsing.
	ErrNoItemsExtracted = errors.New("no valid items")
	ErrInvalidSteamID   = errors.New("invalid steam id")
)

const (
	ReasonSourceUnavailable = "source_unavailable"
	ReasonStoreUnavailable  = "store_unavailable"
	ReasonNoItems           = "no_items"
	ReasonInvalidRequest    = "invalid_request"
	ReasonInternal          = "internal"
)

// Reason maps an error chain to the stable reason string shown to callers.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSteamID):
		return ReasonInvalidRequest
	case errors.Is(err, ErrSourceUnavailable):
		return ReasonSourceUnavailable
	case errors.Is(err, ErrNoItemsExtracted):
		return ReasonNoItems
	case errors.Is(err, ErrStoreUnavailable):
		return ReasonStoreUnavailable
	default:
		return ReasonInternal
	}
}

// Retryable reports whether the caller may retry the same request later.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
