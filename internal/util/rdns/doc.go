// Package rdns renders reverse DNS templates for floating IPs.
//
// Templates support variable substitution for the pool, home location,
// address family and the reversed address labels, producing PTR targets
// such as "{{ pool }}-{{ ip-labels }}.fip.example.com".
package rdns
