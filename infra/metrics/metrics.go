// Package metrics holds the prometheus collectors for the cross engine.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	Actions *prometheus.CounterVec
	Rejects *prometheus.CounterVec
	Fills   prometheus.Counter
	Books   prometheus.Gauge
	Resting prometheus.Gauge
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cross_actions_total",
			Help: "Actions processed, by kind.",
		}, []string{"kind"}),
		Rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cross_rejects_total",
			Help: "Actions answered with an E line, by reason.",
		}, []string{"reason"}),
		Fills: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cross_fills_total",
			Help: "Match increments between an incoming and a resting order.",
		}),
		Books: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cross_books",
			Help: "Symbols with a live book.",
		}),
		Resting: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cross_resting_quantity",
			Help: "Live quantity resting across all books.",
		}),
	}
	m.Registry.MustRegister(m.Actions, m.Rejects, m.Fills, m.Books, m.Resting)
	return m
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "metrics listener %s", addr)
	}
	return nil
}
