package rdns

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// TemplateVars holds variables for RDNS template substitution.
type TemplateVars struct {
	ID        int64  // {{ id }}
	IPAddress string // Used to generate {{ ip-labels }}
	IPType    string // {{ ip-type }}: "ipv4" or "ipv6"
	Location  string // {{ location }}
	Pool      string // {{ pool }}
}

// maxNameLength is the RFC 1035 limit for a full DNS name.
const maxNameLength = 253

var unresolvedPattern = regexp.MustCompile(`\{\{\s*[a-z-]+\s*\}\}`)

// RenderTemplate applies template variable substitution to an RDNS template.
func RenderTemplate(template string, vars TemplateVars) (string, error) {
	if template == "" {
		return "", nil
	}

	ipLabels := ""
	if vars.IPAddress != "" {
		var err error
		ipLabels, err = generateIPLabels(vars.IPAddress)
		if err != nil {
			return "", fmt.Errorf("failed to generate IP labels: %w", err)
		}
	}

	replacements := map[string]string{
		"{{ id }}":        fmt.Sprintf("%d", vars.ID),
		"{{ ip-labels }}": ipLabels,
		"{{ ip-type }}":   vars.IPType,
		"{{ location }}":  vars.Location,
		"{{ pool }}":      vars.Pool,
	}

	result := template
	for pattern, value := range replacements {
		result = strings.ReplaceAll(result, pattern, value)
	}

	if unresolvedPattern.MatchString(result) {
		return "", fmt.Errorf("unresolved template variables in: %s", result)
	}
	if len(result) > maxNameLength {
		return "", fmt.Errorf("rendered name exceeds maximum length of %d: %d", maxNameLength, len(result))
	}

	return result, nil
}

// Validate reports whether template only uses known variables.
func Validate(template string) error {
	_, err := RenderTemplate(template, TemplateVars{
		ID:        1,
		IPAddress: "192.0.2.1",
		IPType:    "ipv4",
		Location:  "fsn1",
		Pool:      "external",
	})
	return err
}

// generateIPLabels creates reverse IP label notation for PTR records.
// IPv4: 1.2.3.4 → 4-3-2-1
// IPv6: 2001:db8::1 → 1-0-0-0-...-8-b-d-0-1-0-0-2
// Labels are joined with dashes so the result stays a single DNS label.
func generateIPLabels(ipAddr string) (string, error) {
	ip := net.ParseIP(ipAddr)
	if ip == nil {
		return "", fmt.Errorf("invalid IP address: %s", ipAddr)
	}

	if v4 := ip.To4(); v4 != nil {
		return reverseIPv4(v4.String()), nil
	}
	return reverseIPv6(ip), nil
}

func reverseIPv4(ipv4 string) string {
	parts := strings.Split(ipv4, ".")
	for i := 0; i < len(parts)/2; i++ {
		j := len(parts) - 1 - i
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "-")
}

func reverseIPv6(ip net.IP) string {
	expanded := expandIPv6(ip)

	var nibbles []string
	for _, hexChar := range expanded {
		if hexChar != ':' {
			nibbles = append(nibbles, string(hexChar))
		}
	}

	for i := 0; i < len(nibbles)/2; i++ {
		j := len(nibbles) - 1 - i
		nibbles[i], nibbles[j] = nibbles[j], nibbles[i]
	}

	return strings.Join(nibbles, "-")
}

// expandIPv6 expands IPv6 address to full form without :: abbreviation.
// Example: 2001:db8::1 → 2001:0db8:0000:0000:0000:0000:0000:0001
func expandIPv6(ip net.IP) string {
	ipv6 := ip.To16()
	if ipv6 == nil {
		return ""
	}

	parts := make([]string, 8)
	for i := 0; i < 8; i++ {
		parts[i] = fmt.Sprintf("%04x", uint16(ipv6[i*2])<<8|uint16(ipv6[i*2+1]))
	}

	return strings.Join(parts, ":")
}
