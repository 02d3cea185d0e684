package domain

import "errors"

var (
	// ErrTransport is returned when a storefront request fails at the
	// network level or comes back with a non-success HTTP status
	ErrTransport = errors.New("storefront request failed")

	// ErrBackendRejected is returned when an otherwise successful response
	// carries an explicit error payload
	ErrBackendRejected = errors.New("storefront rejected the query")

	// ErrMalformedResponse is returned when a response body does not have
	// the expected shape
	ErrMalformedResponse = errors.New("malformed storefront response")

	// ErrCacheUnavailable is returned when the cache store cannot be
	// reached; callers treat the cache as empty and continue
	ErrCacheUnavailable = errors.New("cache store unavailable")

	// ErrCacheMiss is returned when a key is not present in the cache store
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRunInProgress is returned when a comparison run is requested while
	// another one is still in flight
	ErrRunInProgress = errors.New("a comparison run is already in progress")
)
