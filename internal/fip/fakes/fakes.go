// Package fakes provides an in-memory fip.ComputeClient for tests.
package fakes

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/imamik/fipctl/internal/fip"
)

// FloatingNetwork is the address list key under which the fake reports
// floating IPs bound to a server.
const FloatingNetwork = "floating"

// ComputeClient simulates a compute API. Servers and FloatingIPs are kept in
// insertion order so list calls behave like a real API listing.
type ComputeClient struct {
	mu          sync.Mutex
	servers     []*fip.Server
	floatingIPs []*fip.FloatingIP
	nextID      int
	nextAddress int

	// Err, when set for an operation name, is returned by that operation
	// instead of touching state. Operation names match the method names.
	Err map[string]error

	// FailOnCall, when set for an operation name, limits Err to the call
	// with that 1-based number. Earlier and later calls succeed.
	FailOnCall map[string]int

	// Calls counts invocations per operation name.
	Calls map[string]int
}

// NewComputeClient returns an empty fake.
func NewComputeClient() *ComputeClient {
	return &ComputeClient{
		nextID:      1,
		nextAddress: 10,
		Err:         make(map[string]error),
		FailOnCall:  make(map[string]int),
		Calls:       make(map[string]int),
	}
}

// AddServer registers a server. Address lists are copied.
func (f *ComputeClient) AddServer(id, name string, addresses map[string][]string) *fip.Server {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fip.Server{ID: id, Name: name, Addresses: copyAddresses(addresses)}
	f.servers = append(f.servers, s)
	return s
}

// AddFloatingIPRecord registers a floating IP record. If instanceID names a known
// server the address is also added to that server's floating address list.
func (f *ComputeClient) AddFloatingIPRecord(address, pool, instanceID string) *fip.FloatingIP {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := &fip.FloatingIP{
		ID:         fmt.Sprintf("fip-%d", f.nextID),
		Address:    address,
		Pool:       pool,
		InstanceID: instanceID,
	}
	f.nextID++
	f.floatingIPs = append(f.floatingIPs, rec)
	if s := f.serverByID(instanceID); s != nil {
		s.Addresses[FloatingNetwork] = append(s.Addresses[FloatingNetwork], address)
	}
	return rec
}

// FloatingIPs returns a snapshot of all floating IP records.
func (f *ComputeClient) FloatingIPs() []fip.FloatingIP {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fip.FloatingIP, 0, len(f.floatingIPs))
	for _, rec := range f.floatingIPs {
		out = append(out, *rec)
	}
	return out
}

// MutatingCalls returns the number of create, delete, add and remove calls.
func (f *ComputeClient) MutatingCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls["CreateFloatingIP"] + f.Calls["DeleteFloatingIP"] + f.Calls["AddFloatingIP"] + f.Calls["RemoveFloatingIP"]
}

func (f *ComputeClient) Authenticate(_ context.Context) error {
	return f.record("Authenticate")
}

func (f *ComputeClient) ListServers(_ context.Context) ([]*fip.Server, error) {
	if err := f.record("ListServers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*fip.Server, 0, len(f.servers))
	for _, s := range f.servers {
		out = append(out, cloneServer(s))
	}
	return out, nil
}

func (f *ComputeClient) FindServer(_ context.Context, idOrName string) (*fip.Server, error) {
	if err := f.record("FindServer"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []*fip.Server
	for _, s := range f.servers {
		if s.ID == idOrName || s.Name == idOrName {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: server %q", fip.ErrNotFound, idOrName)
	case 1:
		return cloneServer(matches[0]), nil
	default:
		return nil, fmt.Errorf("%w: %d servers match %q", fip.ErrAmbiguous, len(matches), idOrName)
	}
}

func (f *ComputeClient) ListFloatingIPs(_ context.Context) ([]*fip.FloatingIP, error) {
	if err := f.record("ListFloatingIPs"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*fip.FloatingIP, 0, len(f.floatingIPs))
	for _, rec := range f.floatingIPs {
		c := *rec
		out = append(out, &c)
	}
	return out, nil
}

func (f *ComputeClient) CreateFloatingIP(_ context.Context, pool string) (*fip.FloatingIP, error) {
	if err := f.record("CreateFloatingIP"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := &fip.FloatingIP{
		ID:      fmt.Sprintf("fip-%d", f.nextID),
		Address: fmt.Sprintf("203.0.113.%d", f.nextAddress),
		Pool:    pool,
	}
	f.nextID++
	f.nextAddress++
	f.floatingIPs = append(f.floatingIPs, rec)
	c := *rec
	return &c, nil
}

func (f *ComputeClient) DeleteFloatingIP(_ context.Context, id string) error {
	if err := f.record("DeleteFloatingIP"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := slices.IndexFunc(f.floatingIPs, func(rec *fip.FloatingIP) bool { return rec.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: floating IP %s", fip.ErrNotFound, id)
	}
	rec := f.floatingIPs[idx]
	if s := f.serverByID(rec.InstanceID); s != nil {
		s.Addresses[FloatingNetwork] = slices.DeleteFunc(s.Addresses[FloatingNetwork], func(a string) bool { return a == rec.Address })
	}
	f.floatingIPs = slices.Delete(f.floatingIPs, idx, idx+1)
	return nil
}

func (f *ComputeClient) AddFloatingIP(_ context.Context, server *fip.Server, address string) error {
	if err := f.record("AddFloatingIP"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.floatingIPByAddress(address)
	if rec == nil {
		return fmt.Errorf("%w: floating IP %s", fip.ErrNotFound, address)
	}
	s := f.serverByID(server.ID)
	if s == nil {
		return fmt.Errorf("%w: server %s", fip.ErrNotFound, server.ID)
	}
	if prev := f.serverByID(rec.InstanceID); prev != nil {
		prev.Addresses[FloatingNetwork] = slices.DeleteFunc(prev.Addresses[FloatingNetwork], func(a string) bool { return a == address })
	}
	rec.InstanceID = s.ID
	s.Addresses[FloatingNetwork] = append(s.Addresses[FloatingNetwork], address)
	return nil
}

func (f *ComputeClient) RemoveFloatingIP(_ context.Context, server *fip.Server, address string) error {
	if err := f.record("RemoveFloatingIP"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.floatingIPByAddress(address)
	if rec == nil {
		return fmt.Errorf("%w: floating IP %s", fip.ErrNotFound, address)
	}
	if s := f.serverByID(server.ID); s != nil {
		s.Addresses[FloatingNetwork] = slices.DeleteFunc(s.Addresses[FloatingNetwork], func(a string) bool { return a == address })
	}
	rec.InstanceID = ""
	return nil
}

func (f *ComputeClient) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[op]++
	if n, ok := f.FailOnCall[op]; ok && n != f.Calls[op] {
		return nil
	}
	return f.Err[op]
}

func (f *ComputeClient) serverByID(id string) *fip.Server {
	if id == "" {
		return nil
	}
	for _, s := range f.servers {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (f *ComputeClient) floatingIPByAddress(address string) *fip.FloatingIP {
	for _, rec := range f.floatingIPs {
		if rec.Address == address {
			return rec
		}
	}
	return nil
}

func cloneServer(s *fip.Server) *fip.Server {
	return &fip.Server{ID: s.ID, Name: s.Name, Addresses: copyAddresses(s.Addresses)}
}

func copyAddresses(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}
