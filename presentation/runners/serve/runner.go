package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
	"transit/application/logging"
	appnet "transit/application/network"
	"transit/domain/network"
	"transit/infrastructure/settings"
	"transit/infrastructure/socket"
	"transit/infrastructure/telemetry/metrics"
	"transit/infrastructure/telemetry/trafficstats"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const (
	sampleInterval  = time.Second
	emaAlpha        = 0.3
	metricsShutdown = 2 * time.Second
)

// Runner binds the configured listeners and echoes everything they receive.
type Runner struct {
	file          settings.File
	logger        logging.Logger
	statsInterval time.Duration
	bound         chan []*socket.Listener
}

func NewRunner(file settings.File, logger logging.Logger, statsInterval time.Duration) *Runner {
	return &Runner{
		file:          file,
		logger:        logger,
		statsInterval: statsInterval,
		bound:         make(chan []*socket.Listener, 1),
	}
}

// Bound yields the listeners once they are bound, for callers that need the
// resolved ports.
func (r *Runner) Bound() <-chan []*socket.Listener {
	return r.bound
}

func (r *Runner) Run(ctx context.Context) error {
	if len(r.file.Listeners) == 0 {
		return errors.New("no listener is configured")
	}

	collector := trafficstats.NewCollector(sampleInterval, emaAlpha)
	trafficstats.SetGlobal(collector)
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry, collector)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	listeners, err := r.bind(m)
	if err != nil {
		return err
	}
	defer func() {
		for _, l := range listeners {
			if closeErr := l.Close(); closeErr != nil {
				r.logger.Printf("close %s listener: %v", l.Transport(), closeErr)
			}
		}
	}()
	for _, l := range listeners {
		if err = l.Start(r.echo); err != nil {
			return fmt.Errorf("start %s listener: %w", l.Transport(), err)
		}
	}
	r.bound <- listeners

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		collector.Start(ctx)
		return nil
	})
	if r.statsInterval > 0 {
		g.Go(func() error {
			r.reportStats(ctx)
			return nil
		})
	}
	if r.file.MetricsAddress != "" {
		g.Go(func() error {
			return r.serveMetrics(ctx, registry)
		})
	}
	return g.Wait()
}

func (r *Runner) bind(m *metrics.Metrics) ([]*socket.Listener, error) {
	listeners := make([]*socket.Listener, 0, len(r.file.Listeners))
	for _, ls := range r.file.Listeners {
		l, err := socket.Bind(ls.Transport, ls.Port,
			socket.WithSettings(r.file.Settings),
			socket.WithLogger(r.logger),
			socket.WithMetrics(m),
		)
		if err != nil {
			for _, bound := range listeners {
				_ = bound.Close()
			}
			return nil, err
		}
		listeners = append(listeners, l)
	}
	return listeners, nil
}

// echo sends every received chunk back until the peer goes away.
func (r *Runner) echo(conn appnet.Connection) {
	if err := conn.Start(); err != nil {
		r.logger.Printf("start connection %s: %v", conn.ID(), err)
		return
	}
	var next func()
	next = func() {
		conn.Receive(1, maxChunk(r.file.Settings, conn), func(data []byte, err error) {
			if err == nil {
				conn.Send(data, nil)
				next()
				return
			}
			if !errors.Is(err, network.ErrPartialDataOnClose) && !errors.Is(err, network.ErrConnectionClosed) {
				r.logger.Printf("connection %s: %v", conn.ID(), err)
			}
			if len(data) == 0 {
				_ = conn.Close()
				return
			}
			// the final record is written before the connection goes away.
			conn.Send(data, func(error) { _ = conn.Close() })
		})
	}
	next()
}

func maxChunk(s settings.Settings, conn appnet.Connection) int {
	if conn.Transport().PacketGranular() {
		return s.MaxPacketSize(conn.Transport())
	}
	return 64 << 10
}

func (r *Runner) reportStats(ctx context.Context) {
	ticker := time.NewTicker(r.statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.logger.Printf("traffic: %s", trafficstats.FormatSnapshot(trafficstats.SnapshotGlobal()))
		}
	}
}

func (r *Runner) serveMetrics(ctx context.Context, registry *prometheus.Registry) error {
	ln, err := net.Listen("tcp", r.file.MetricsAddress)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdown)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	r.logger.Printf("metrics served on http://%s/metrics", ln.Addr())
	if err = srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
