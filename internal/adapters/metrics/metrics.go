// Package metrics exports bot activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pithos-gov/pithos/internal/usecase"
)

var _ usecase.Observer = (*Observer)(nil)

// Observer implements usecase.Observer with Prometheus collectors
type Observer struct {
	messages          *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	votes             prometheus.Counter
	motionsFiled      prometheus.Counter
	motionsArchived   prometheus.Counter
	delegationChanges prometheus.Counter
	activeFlows       prometheus.Gauge
}

// NewObserver registers the collectors on reg
func NewObserver(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pithos_messages_total",
			Help: "inbound messages by route",
		}, []string{"route"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pithos_rejected_input_total",
			Help: "rejected commands and flow input by reason",
		}, []string{"reason"}),
		votes: f.NewCounter(prometheus.CounterOpts{
			Name: "pithos_votes_total",
			Help: "direct votes recorded",
		}),
		motionsFiled: f.NewCounter(prometheus.CounterOpts{
			Name: "pithos_motions_filed_total",
			Help: "motions filed",
		}),
		motionsArchived: f.NewCounter(prometheus.CounterOpts{
			Name: "pithos_motions_archived_total",
			Help: "expired motions archived",
		}),
		delegationChanges: f.NewCounter(prometheus.CounterOpts{
			Name: "pithos_delegation_changes_total",
			Help: "persisted delegation edits",
		}),
		activeFlows: f.NewGauge(prometheus.GaugeOpts{
			Name: "pithos_active_flows",
			Help: "members in the middle of a multi-step command",
		}),
	}
}

func (o *Observer) MessageRouted(route string) { o.messages.WithLabelValues(route).Inc() }
func (o *Observer) InputRejected(reason string) { o.rejections.WithLabelValues(reason).Inc() }
func (o *Observer) VoteRecorded()               { o.votes.Inc() }
func (o *Observer) MotionFiled()                { o.motionsFiled.Inc() }
func (o *Observer) MotionArchived()             { o.motionsArchived.Inc() }
func (o *Observer) DelegationChanged()          { o.delegationChanges.Inc() }
func (o *Observer) ActiveFlows(n int)           { o.activeFlows.Set(float64(n)) }

// Serve exposes /metrics for g on addr until ctx is done
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving prometheus metrics", "addr", addr, "component", "metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
