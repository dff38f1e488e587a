package handlers

import (
	"context"
	"io"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/fipctl/internal/fip"
	"github.com/imamik/fipctl/internal/metrics"
)

// Reconcile handles the reconcile command.
//
// It resolves the configuration, runs one reconciliation and writes the
// result to out. A failed reconciliation is rendered as a structured failure
// and also returned, so the process exits non-zero.
func Reconcile(ctx context.Context, opts Options, req ReconcileOptions, out, errOut io.Writer) error {
	log, err := newLogger(opts.LogFormat, opts.Verbosity, errOut)
	if err != nil {
		return err
	}
	ctx = logr.NewContext(ctx, log)

	format, err := resolveFormat(opts.Output, out)
	if err != nil {
		return err
	}

	state, err := fip.ParseDesiredState(req.State)
	if err != nil {
		return renderFailure(out, format, err)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return renderFailure(out, format, err)
	}

	pool := req.Pool
	if pool == "" {
		pool = cfg.Pool
	}

	recorder := metrics.NewRecorder()
	client := recorder.InstrumentClient(newComputeClient(cfg, recorder.Registry()))

	start := time.Now()
	res, err := fip.NewReconciler(client).Reconcile(ctx, fip.Request{
		State:   state,
		Server:  req.Server,
		Address: req.Address,
		Pool:    pool,
	})
	recorder.ObserveReconcile(state, res, err, time.Since(start))

	if opts.MetricsFile != "" {
		if werr := recorder.WriteTextfile(opts.MetricsFile); werr != nil {
			log.Error(werr, "failed to write metrics", "path", opts.MetricsFile)
		}
	}

	if rerr := renderResult(out, format, res, err); rerr != nil {
		return rerr
	}
	return err
}

// renderFailure reports an error raised before the reconciler ran.
func renderFailure(out io.Writer, format string, err error) error {
	if rerr := renderResult(out, format, fip.Result{}, err); rerr != nil {
		return rerr
	}
	return err
}
