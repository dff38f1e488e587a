// Package config defines the connection and allocation settings of fipctl.
//
// A [Config] is assembled once by the caller: values from an optional YAML
// file come first, unset fields fall back to environment variables through
// an injected [LookupFunc], and remaining gaps get defaults. Nothing in this
// package reads the process environment on its own, so the reconciler and the
// API client only ever see the explicit struct.
//
// Environment variables:
//
//   - HCLOUD_TOKEN: API token
//   - HCLOUD_ENDPOINT: API endpoint override
//   - HCLOUD_LOCATION: home location for new floating IPs (default: fsn1)
//   - HCLOUD_TIMEOUT_REQUEST: per HTTP request timeout (default: 30s)
//   - HCLOUD_TIMEOUT_ACTION: wait limit for asynchronous actions (default: 2m)
package config
