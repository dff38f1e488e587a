package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/imamik/fipctl/internal/fip"
	"github.com/imamik/fipctl/internal/metrics"
)

// List handles the list command.
func List(ctx context.Context, opts Options, pool string, out, errOut io.Writer) error {
	log, err := newLogger(opts.LogFormat, opts.Verbosity, errOut)
	if err != nil {
		return err
	}
	ctx = logr.NewContext(ctx, log)

	format, err := resolveFormat(opts.Output, out)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	client := recorder.InstrumentClient(newComputeClient(cfg, recorder.Registry()))

	if err := client.Authenticate(ctx); err != nil {
		return err
	}
	fips, err := client.ListFloatingIPs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list floating IPs: %w", err)
	}

	var selected []*fip.FloatingIP
	for _, f := range fips {
		if pool == "" || f.Pool == pool {
			selected = append(selected, f)
		}
	}
	log.V(1).Info("listed floating IPs", "total", len(fips), "selected", len(selected))

	if opts.MetricsFile != "" {
		if werr := recorder.WriteTextfile(opts.MetricsFile); werr != nil {
			log.Error(werr, "failed to write metrics", "path", opts.MetricsFile)
		}
	}

	return renderList(out, format, selected)
}
