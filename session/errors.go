package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when an operation needs a signed-in session.
	ErrNoSession = errors.New("session: not authenticated")
	// ErrNoRefreshToken is the termination cause when no refresh token is stored.
	ErrNoRefreshToken = errors.New("session: no refresh token")
	// ErrTokenExpired marks an access token past its expiry. It is recovered
	// locally by refreshing whenever possible.
	ErrTokenExpired = errors.New("session: access token expired")
	// ErrRefreshFailed matches every terminal refresh failure.
	ErrRefreshFailed = errors.New("session: refresh failed")
	// ErrSessionTerminated signals that the session was destroyed and the
	// user must sign in again.
	ErrSessionTerminated = errors.New("session: terminated")
)

// TerminatedError is returned when a refresh could not recover the session.
// It matches ErrSessionTerminated, ErrRefreshFailed and the underlying cause.
type TerminatedError struct {
	Cause error
}

func (e *TerminatedError) Error() string {
	if e.Cause == nil {
		return ErrSessionTerminated.Error()
	}
	return fmt.Sprintf("%s: %v", ErrSessionTerminated.Error(), e.Cause)
}

func (e *TerminatedError) Unwrap() []error {
	errs := []error{ErrSessionTerminated, ErrRefreshFailed}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
