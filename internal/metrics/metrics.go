// Package metrics records reconciliation outcomes and compute API calls.
//
// fipctl runs once per invocation, so metrics are not served over HTTP.
// Instead the registry can be written to a node-exporter textfile collector
// directory after the run.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/fipctl/internal/fip"
)

// Result label values.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultPartial   = "partial"
	ResultError     = "error"
	ResultSuccess   = "success"
)

// Recorder owns a private registry and the fipctl collectors.
type Recorder struct {
	registry *prometheus.Registry

	reconcileTotal    *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec
	lastRun           *prometheus.GaugeVec
	apiCallsTotal     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reconcileTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fipctl",
				Subsystem: "reconcile",
				Name:      "total",
				Help:      "Total number of reconciliations by desired state and result",
			},
			[]string{"state", "result"},
		),
		reconcileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fipctl",
				Subsystem: "reconcile",
				Name:      "duration_seconds",
				Help:      "Duration of reconciliation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"state"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fipctl",
				Subsystem: "reconcile",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last reconciliation by result",
			},
			[]string{"result"},
		),
		apiCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fipctl",
				Subsystem: "api",
				Name:      "calls_total",
				Help:      "Total number of compute API client calls by operation and result",
			},
			[]string{"operation", "result"},
		),
	}

	r.registry.MustRegister(r.reconcileTotal, r.reconcileDuration, r.lastRun, r.apiCallsTotal)
	return r
}

// Registry returns the registry holding the fipctl collectors. The hcloud
// client registers its request metrics here too.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveReconcile records the outcome of one reconciliation.
func (r *Recorder) ObserveReconcile(state fip.DesiredState, res fip.Result, err error, d time.Duration) {
	result := resultLabel(res, err)
	r.reconcileTotal.WithLabelValues(string(state), result).Inc()
	r.reconcileDuration.WithLabelValues(string(state)).Observe(d.Seconds())
	r.lastRun.WithLabelValues(result).SetToCurrentTime()
}

// WriteTextfile writes all metrics in text exposition format to path,
// atomically, for the node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func resultLabel(res fip.Result, err error) string {
	var partial *fip.PartialError
	switch {
	case errors.As(err, &partial):
		return ResultPartial
	case err != nil:
		return ResultError
	case res.Changed:
		return ResultChanged
	default:
		return ResultUnchanged
	}
}

func (r *Recorder) observeCall(op string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.apiCallsTotal.WithLabelValues(op, result).Inc()
}

// InstrumentClient wraps c so every call is counted.
func (r *Recorder) InstrumentClient(c fip.ComputeClient) fip.ComputeClient {
	return &instrumentedClient{next: c, rec: r}
}

type instrumentedClient struct {
	next fip.ComputeClient
	rec  *Recorder
}

func (c *instrumentedClient) Authenticate(ctx context.Context) error {
	err := c.next.Authenticate(ctx)
	c.rec.observeCall("authenticate", err)
	return err
}

func (c *instrumentedClient) ListServers(ctx context.Context) ([]*fip.Server, error) {
	servers, err := c.next.ListServers(ctx)
	c.rec.observeCall("list_servers", err)
	return servers, err
}

func (c *instrumentedClient) FindServer(ctx context.Context, idOrName string) (*fip.Server, error) {
	server, err := c.next.FindServer(ctx, idOrName)
	c.rec.observeCall("find_server", err)
	return server, err
}

func (c *instrumentedClient) ListFloatingIPs(ctx context.Context) ([]*fip.FloatingIP, error) {
	fips, err := c.next.ListFloatingIPs(ctx)
	c.rec.observeCall("list_floating_ips", err)
	return fips, err
}

func (c *instrumentedClient) CreateFloatingIP(ctx context.Context, pool string) (*fip.FloatingIP, error) {
	created, err := c.next.CreateFloatingIP(ctx, pool)
	c.rec.observeCall("create_floating_ip", err)
	return created, err
}

func (c *instrumentedClient) DeleteFloatingIP(ctx context.Context, id string) error {
	err := c.next.DeleteFloatingIP(ctx, id)
	c.rec.observeCall("delete_floating_ip", err)
	return err
}

func (c *instrumentedClient) AddFloatingIP(ctx context.Context, server *fip.Server, address string) error {
	err := c.next.AddFloatingIP(ctx, server, address)
	c.rec.observeCall("add_floating_ip", err)
	return err
}

func (c *instrumentedClient) RemoveFloatingIP(ctx context.Context, server *fip.Server, address string) error {
	err := c.next.RemoveFloatingIP(ctx, server, address)
	c.rec.observeCall("remove_floating_ip", err)
	return err
}
