package handlers

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// newLogger builds the CLI logger. Logs go to w so stdout stays reserved
// for the command result.
func newLogger(format string, verbosity int, w io.Writer) (logr.Logger, error) {
	opts := funcr.Options{
		LogTimestamp: true,
		Verbosity:    verbosity,
	}

	switch format {
	case LogFormatText, "":
		return funcr.New(func(prefix, args string) {
			if prefix != "" {
				fmt.Fprintf(w, "%s: %s\n", prefix, args)
				return
			}
			fmt.Fprintln(w, args)
		}, opts), nil
	case LogFormatJSON:
		return funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, opts), nil
	default:
		return logr.Discard(), fmt.Errorf("unknown log format %q (want %s or %s)", format, LogFormatText, LogFormatJSON)
	}
}
