package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound means nothing is persisted: the caller is not signed in.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("stored session could not be decoded")

	// ErrRefreshFailed matches every *RefreshError.
	ErrRefreshFailed = errors.New("session refresh failed")
)

// DecodeError means a record exists under Key but is corrupt or of an unknown shape.
// It is deliberately distinct from ErrSessionNotFound; callers decide whether to
// treat it as signed out.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode session %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// RefreshError wraps the failure returned by a RefreshFunc. Every waiter of the
// refresh receives the same *RefreshError.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh session: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func (e *RefreshError) Is(target error) bool {
	return target == ErrRefreshFailed
}
