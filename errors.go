package main

import (
	"errors"
	"fmt"
)

// ErrBucketNotFound aborts a run before any scanning happens.
var ErrBucketNotFound = errors.New("bucket not found")

// ConfigurationError covers run configuration that can never work:
// missing upload directory, an exclude prefix that is not part of the
// upload directory, empty bucket name. Always raised before any walk
// or network call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// RemoteUnavailable wraps a failed bucket listing. Listing is a
// precondition for every sync decision, so callers treat it as fatal
// rather than retrying locally.
type RemoteUnavailable struct {
	Bucket string
	Err    error
}

func (e *RemoteUnavailable) Error() string {
	return fmt.Sprintf("bucket %s unavailable: %s", e.Bucket, e.Err)
}

func (e *RemoteUnavailable) Unwrap() error { return e.Err }

// TransferError marks a failed object transfer after the storage
// client exhausted its own retries. It is the only error class the
// executor downgrades to a Failed outcome; anything else terminates
// the run.
type TransferError struct {
	Key string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %s: %s", e.Key, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
