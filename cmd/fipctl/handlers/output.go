package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/fipctl/internal/fip"
	"github.com/imamik/fipctl/internal/platform/hcloud"
)

// Output formats accepted by --output.
const (
	OutputAuto = "auto"
	OutputJSON = "json"
	OutputText = "text"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
)

var (
	changedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	failedStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	unchangedStyle = lipgloss.NewStyle().Foreground(colorDim)
	addressStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	headerStyle    = lipgloss.NewStyle().Bold(true)
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveFormat turns --output into json or text.
func resolveFormat(format string, out io.Writer) (string, error) {
	switch format {
	case OutputJSON, OutputText:
		return format, nil
	case OutputAuto, "":
		if isTerminal(out) {
			return OutputText, nil
		}
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, OutputAuto, OutputJSON, OutputText)
	}
}

// reconcileOutput is the machine readable result of a reconcile run.
type reconcileOutput struct {
	Changed    bool   `json:"changed"`
	FloatingIP string `json:"floating_ip,omitempty"`
	Failed     bool   `json:"failed,omitempty"`
	Msg        string `json:"msg,omitempty"`
}

func renderResult(w io.Writer, format string, res fip.Result, runErr error) error {
	o := reconcileOutput{Changed: res.Changed, FloatingIP: res.Address}
	if runErr != nil {
		o.Failed = true
		o.Msg = failureMessage(runErr)
	}

	if format == OutputJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(o)
	}

	var b strings.Builder
	switch {
	case o.Failed:
		b.WriteString(failedStyle.Render("failed"))
	case o.Changed:
		b.WriteString(changedStyle.Render("changed"))
	default:
		b.WriteString(unchangedStyle.Render("unchanged"))
	}
	if o.FloatingIP != "" {
		b.WriteString("  ")
		b.WriteString(addressStyle.Render(o.FloatingIP))
	}
	if o.Failed {
		b.WriteString("\n  ")
		b.WriteString(o.Msg)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// failureMessage renders err for humans, with a hint for known API limits.
func failureMessage(err error) string {
	msg := err.Error()
	if hcloud.IsQuotaExceeded(err) {
		msg += " (floating IP limit reached: release unused floating IPs or request a limit increase)"
	}
	return msg
}

// floatingIPOutput is one row of the list command.
type floatingIPOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	Pool    string `json:"pool,omitempty"`
	Server  string `json:"server,omitempty"`
}

func renderList(w io.Writer, format string, fips []*fip.FloatingIP) error {
	rows := make([]floatingIPOutput, 0, len(fips))
	for _, f := range fips {
		rows = append(rows, floatingIPOutput{
			ID:      f.ID,
			Name:    f.Name,
			Address: f.Address,
			Pool:    f.Pool,
			Server:  f.InstanceID,
		})
	}

	if format == OutputJSON {
		return json.NewEncoder(w).Encode(rows)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-40s %-12s %s", "ID", "ADDRESS", "POOL", "SERVER")))
	b.WriteString("\n")
	for _, r := range rows {
		server := r.Server
		if server == "" {
			server = unchangedStyle.Render("-")
		}
		b.WriteString(fmt.Sprintf("%-10s %-40s %-12s %s\n", r.ID, addressStyle.Render(r.Address), r.Pool, server))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
