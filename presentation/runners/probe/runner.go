package probe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
	"transit/application/logging"
	"transit/infrastructure/settings"
	"transit/infrastructure/socket"

	"golang.org/x/sync/errgroup"
)

const (
	loopbackHost    = "127.0.0.1"
	scenarioTimeout = 10 * time.Second
)

// Runner executes scenarios concurrently and logs one verdict per scenario.
type Runner struct {
	settings  settings.Settings
	logger    logging.Logger
	scenarios []Scenario
}

func NewRunner(s settings.Settings, logger logging.Logger, scenarios []Scenario) *Runner {
	if scenarios == nil {
		scenarios = DefaultScenarios()
	}
	s.Host = loopbackHost
	return &Runner{
		settings:  s,
		logger:    logger,
		scenarios: scenarios,
	}
}

// Run returns an error naming every failed scenario.
func (r *Runner) Run(ctx context.Context) error {
	results := make([]error, len(r.scenarios))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sc := range r.scenarios {
		g.Go(func() error {
			results[i] = r.run(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for i, sc := range r.scenarios {
		if err := results[i]; err != nil {
			r.logger.Printf("FAIL %s: %v", sc.Name, err)
			failed = append(failed, fmt.Errorf("%s: %w", sc.Name, err))
			continue
		}
		r.logger.Printf("PASS %s", sc.Name)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d probes failed: %w", len(failed), len(r.scenarios), errors.Join(failed...))
	}
	return nil
}

func (r *Runner) run(ctx context.Context, sc Scenario) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	s, err := openSession(ctx, sc.Transport, []socket.Option{
		socket.WithSettings(r.settings),
		socket.WithLogger(r.logger),
	})
	if err != nil {
		return err
	}
	defer s.close()
	return sc.Run(ctx, s)
}
