package main

import "github.com/pkg/errors"

// exitStatus is the process exit status a command failure maps to.
// Anything not wrapped with withCode exits with exitInternal.
type exitStatus int

const (
	exitOK         exitStatus = 0
	exitInternal   exitStatus = 1
	exitValidation exitStatus = 2
	exitUsage      exitStatus = 3
	exitIO         exitStatus = 4
	exitNotFound   exitStatus = 5
)

func (s exitStatus) String() string {
	switch s {
	case exitOK:
		return "ok"
	case exitValidation:
		return "invalid input"
	case exitUsage:
		return "usage"
	case exitIO:
		return "io"
	case exitNotFound:
		return "not found"
	default:
		return "internal"
	}
}

type statusError struct {
	status exitStatus
	cause  error
}

func (e *statusError) Error() string { return e.cause.Error() }
func (e *statusError) Unwrap() error { return e.cause }

func withCode(status exitStatus, err error) error {
	if err == nil {
		return nil
	}
	return &statusError{status: status, cause: err}
}

// exitCode finds the outermost status attached to err.
func exitCode(err error) exitStatus {
	if err == nil {
		return exitOK
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return exitInternal
}
