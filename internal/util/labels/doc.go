// Package labels builds the Hetzner Cloud labels fipctl puts on the
// resources it creates.
package labels
