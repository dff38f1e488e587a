package fip

import (
	"fmt"
	"slices"
)

// DefaultPool is the pool used when a request does not name one.
const DefaultPool = "external"

// DesiredState is the declared state of a floating address.
type DesiredState string

const (
	// StatePresent declares that the address exists and, if a server is
	// given, is associated with it.
	StatePresent DesiredState = "present"
	// StateAbsent declares that the address does not exist or, if a server
	// is given, is not associated with it.
	StateAbsent DesiredState = "absent"
)

// ValidStates returns all valid desired states.
func ValidStates() []DesiredState {
	return []DesiredState{StatePresent, StateAbsent}
}

// IsValid returns true if the state is one of the known desired states.
func (s DesiredState) IsValid() bool {
	switch s {
	case StatePresent, StateAbsent:
		return true
	default:
		return false
	}
}

// ParseDesiredState converts a user supplied string into a DesiredState.
func ParseDesiredState(s string) (DesiredState, error) {
	state := DesiredState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: state must be one of %v, got %q", ErrInvalidRequest, ValidStates(), s)
	}
	return state, nil
}

// Server is a compute instance as seen by the reconciler.
type Server struct {
	ID   string
	Name string

	// Addresses maps a network name to the addresses the server currently
	// holds on it, in API order.
	Addresses map[string][]string
}

// HasAddress reports whether address appears in any of the server's
// network address lists.
func (s *Server) HasAddress(address string) bool {
	if s == nil {
		return false
	}
	for _, addrs := range s.Addresses {
		if slices.Contains(addrs, address) {
			return true
		}
	}
	return false
}

// String returns the server name, falling back to its ID.
func (s *Server) String() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// FloatingIP is a floating address owned by the account.
type FloatingIP struct {
	ID      string
	Name    string
	Address string
	Pool    string

	// InstanceID is the ID of the server the API reports the address as
	// assigned to. Empty when unassigned.
	InstanceID string
}

// IsAssigned reports whether the API record names a server.
func (f *FloatingIP) IsAssigned() bool {
	return f.InstanceID != ""
}

// Request describes one reconciliation.
type Request struct {
	State DesiredState

	// Server is an ID or name. Optional.
	Server string

	// Address is the floating address. Optional for StatePresent.
	Address string

	// Pool selects where new addresses are allocated from. Defaults to
	// DefaultPool.
	Pool string
}

// Result is the outcome of a reconciliation.
type Result struct {
	Changed bool
	Address string
}
