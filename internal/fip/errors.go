package fip

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure returned by a Reconciler or a ComputeClient
// wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrAuthentication means the credentials were rejected.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAuthorization means the credentials are valid but lack the rights
	// for the requested call.
	ErrAuthorization = errors.New("not authorized")
	// ErrNotFound means a named server or floating address does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means an identifier resolved to more than one resource.
	ErrAmbiguous = errors.New("ambiguous resource")
	// ErrAllocation means a new floating IP could not be created.
	ErrAllocation = errors.New("floating IP allocation failed")
	// ErrInvalidRequest means the request itself is malformed.
	ErrInvalidRequest = errors.New("invalid request")
)

// PartialError is returned when a floating IP was allocated for a server
// but the association that should follow failed. Address holds the
// allocated, still unassociated address so the caller can act on it.
type PartialError struct {
	Address string
	Server  string
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("allocated floating IP %s but failed to associate it with server %s: %v", e.Address, e.Server, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// IsPartial reports whether err is a PartialError.
func IsPartial(err error) bool {
	var pe *PartialError
	return errors.As(err, &pe)
}
