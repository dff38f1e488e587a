// Package fip reconciles floating IP state against a cloud compute API.
//
// A reconciliation takes a declared desired state (present or absent) for a
// floating address, optionally bound to a server, and issues the minimal set
// of API calls needed to make the account match it. State is never cached:
// every run re-reads servers and floating IPs through the ComputeClient.
//
// # Decision table
//
//	state    address  server   action
//	present  -        -        allocate from pool
//	present  -        S        allocate from pool, associate with S
//	present  A        S        associate A with S unless S already lists A
//	absent   A        -        delete every floating IP whose address is A
//	absent   A        S        disassociate A from S if S lists A
//
// Allocation prefers an unassigned floating IP already owned in the pool and
// only creates a new one when none is free.
//
// # Concurrency
//
// A Reconciler holds no mutable state. Two concurrent runs against the same
// address can both observe it as unassociated and both call associate; the
// compute API's own concurrency control decides the outcome.
package fip
