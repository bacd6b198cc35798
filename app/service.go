package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	plannerapi "github.com/kilianp07/seaplane/api/planner"
	"github.com/kilianp07/seaplane/config"
	coremetrics "github.com/kilianp07/seaplane/core/metrics"
	coremon "github.com/kilianp07/seaplane/core/monitoring"
	coremqtt "github.com/kilianp07/seaplane/core/mqtt"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/graphql"
	"github.com/kilianp07/seaplane/infra/journal"
	"github.com/kilianp07/seaplane/infra/logger"
	"github.com/kilianp07/seaplane/infra/metrics"
	"github.com/kilianp07/seaplane/infra/monitoring"
	"github.com/kilianp07/seaplane/infra/mqtt"
	"github.com/kilianp07/seaplane/internal/eventbus"
)

// Service wires the planner to its collaborators: the GraphQL backend, the
// event subscribers and the HTTP API.
type Service struct {
	Planner  *Planner
	Session  *planning.Session
	bus      *eventbus.TypedBus[planning.Event]
	sink     coremetrics.MetricsSink
	journal  journal.Store
	pub      coremqtt.Publisher
	monitor  coremon.Monitor
	cfg      *config.Config
	log      logger.Logger
	refreshC chan struct{}
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	return NewWithBackend(cfg, graphql.New(cfg.API, logger.New("graphql")))
}

// NewWithBackend creates a Service using backend instead of the configured
// GraphQL endpoint.
func NewWithBackend(cfg *config.Config, backend Backend) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	bus := eventbus.NewTyped[planning.Event]()
	session := planning.NewSession(planning.NewRegistries(), nil, bus, logger.New("session"), cfg.Planner.DockedOnlyEnabled())
	svc := &Service{
		Session:  session,
		Planner:  NewPlanner(session, backend, logger.New("planner"), cfg.Planner.RefreshAfterSubmitEnabled()),
		bus:      bus,
		sink:     sink,
		journal:  store,
		monitor:  mon,
		cfg:      cfg,
		log:      logg,
		refreshC: make(chan struct{}, 1),
	}

	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT, logger.New("mqtt"), svc.requestRefresh)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.pub = pub
	}
	return svc, nil
}

// requestRefresh asks Run for a full refresh without blocking the caller.
func (s *Service) requestRefresh() {
	select {
	case s.refreshC <- struct{}{}:
	default:
	}
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	return plannerapi.NewRouter(s.Planner, s.journal, s.cfg.HTTP.Token, logger.New("api"))
}

// Run starts the planner, loads the initial data and serves the API until
// the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	go s.Planner.Run(ctx)

	metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("metrics"))
	journal.StartRecorder(ctx, s.bus, s.journal, logger.New("journal"))
	if s.pub != nil {
		mqtt.StartDeliveryForwarder(ctx, s.bus, s.pub, logger.New("mqtt"))
	}
	if addr := s.cfg.Metrics.PrometheusPort; addr != "" {
		coremon.Go(func() {
			if err := metrics.StartPromServer(ctx, ":"+addr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		})
	}

	if err := s.Planner.Refresh(ctx); err != nil {
		s.log.Warnf("initial load: %v", err)
	}
	coremon.Go(func() { s.Planner.RefreshEvery(ctx, s.cfg.Planner.RefreshInterval()) })
	coremon.Go(func() { s.refreshOnRequest(ctx) })

	srv := &http.Server{Addr: s.cfg.HTTP.Address, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("planner API listening on %s", s.cfg.HTTP.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func (s *Service) refreshOnRequest(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.refreshC:
			s.log.Infof("refresh requested by broker")
			if err := s.Planner.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.log.Warnf("requested refresh: %v", err)
			}
		}
	}
}

// Close releases the resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.pub != nil {
		s.pub.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.monitor.Flush(2 * time.Second)
	return s.journal.Close()
}
