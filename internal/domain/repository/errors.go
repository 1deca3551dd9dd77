package repository

import "errors"

var (
	// ErrVideoNotFound is returned when the platform has no video with the given ID.
	ErrVideoNotFound = errors.New("video not found")

	// ErrUpstreamFailure is returned when the video platform call fails
	// (network error, quota exceeded, error response).
	ErrUpstreamFailure = errors.New("video platform request failed")

	// ErrStoreUnavailable is returned when the cache or history store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrObjectNotFound is returned when an object does not exist in storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
