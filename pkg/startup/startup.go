package startup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

type StartupDependency interface {
	GetName() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type StartupStatus int

const (
	StartupStatusPending StartupStatus = iota
	StartupStatusStarted
	StartupStatusStopped
	StartupStatusFailed
)

// Startup starts dependencies after the ones they depend on, retrying the
// whole set with fibonacci backoff, and stops them in reverse start order.
type Startup struct {
	order        []string
	dependencies map[string]StartupDependency
	statuses     map[string]StartupStatus
	started      []string
	logger       ectologger.Logger
	maxAttempts  int
	backoffUnit  time.Duration
}

// NewStartup creates a startup manager that retries up to maxAttempts times
func NewStartup(logger ectologger.Logger, maxAttempts int) *Startup {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Startup{
		dependencies: make(map[string]StartupDependency),
		statuses:     make(map[string]StartupStatus),
		logger:       logger,
		maxAttempts:  maxAttempts,
		backoffUnit:  time.Second,
	}
}

// WithBackoffUnit scales the fibonacci wait between attempts.
func (s *Startup) WithBackoffUnit(unit time.Duration) *Startup {
	s.backoffUnit = unit
	return s
}

// AddDependency adds a dependency to be started
func (s *Startup) AddDependency(dependency StartupDependency) {
	name := dependency.GetName()
	if _, ok := s.dependencies[name]; !ok {
		s.order = append(s.order, name)
	}
	s.dependencies[name] = dependency
}

// Status returns the current status of the named dependency
func (s *Startup) Status(name string) StartupStatus {
	return s.statuses[name]
}

// Start starts every dependency in dependency order, retrying the whole run on failure
func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		lastErr = nil
		for _, name := range s.order {
			if err := s.startDependency(ctx, name, nil); err != nil {
				s.logger.WithError(err).Errorf("Startup dependency '%s' attempt %d failed", name, attempt)
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			return nil
		}

		if attempt == s.maxAttempts {
			break
		}

		wait := time.Duration(a) * s.backoffUnit
		s.logger.Infof("Retrying in %s (attempt %d/%d)", wait, attempt, s.maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		a, b = b, a+b
	}

	return fmt.Errorf("startup failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Startup) startDependency(ctx context.Context, name string, visiting []string) error {
	if s.statuses[name] == StartupStatusStarted {
		return nil
	}
	for _, v := range visiting {
		if v == name {
			return fmt.Errorf("dependency cycle detected at '%s'", name)
		}
	}

	dependency, ok := s.dependencies[name]
	if !ok {
		return fmt.Errorf("unknown startup dependency '%s'", name)
	}

	for _, parent := range dependency.DependsOn() {
		if err := s.startDependency(ctx, parent, append(visiting, name)); err != nil {
			return err
		}
	}

	s.logger.WithField("dependency", name).Infof("Starting dependency '%s'", name)
	s.statuses[name] = StartupStatusPending
	if err := dependency.Start(ctx); err != nil {
		s.statuses[name] = StartupStatusFailed
		s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to start dependency '%s'", name)
		return err
	}
	s.statuses[name] = StartupStatusStarted
	s.started = append(s.started, name)
	return nil
}

// Stop stops every started dependency in reverse start order. All of them
// are attempted; failures are joined.
func (s *Startup) Stop(ctx context.Context) error {
	var errs []error
	for i := len(s.started) - 1; i >= 0; i-- {
		name := s.started[i]
		if s.statuses[name] != StartupStatusStarted {
			continue
		}

		s.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := s.dependencies[name].Stop(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to stop dependency '%s'", name)
			errs = append(errs, err)
			continue
		}
		s.statuses[name] = StartupStatusStopped
		s.logger.WithField("dependency", name).Infof("Dependency '%s' stopped", name)
	}
	s.started = nil
	return errors.Join(errs...)
}

// Dependency adapts plain functions to StartupDependency.
type Dependency struct {
	Name      string
	Requires  []string
	StartFunc func(ctx context.Context) error
	StopFunc  func(ctx context.Context) error
}

func (d *Dependency) GetName() string { return d.Name }

func (d *Dependency) DependsOn() []string { return d.Requires }

func (d *Dependency) Start(ctx context.Context) error {
	if d.StartFunc == nil {
		return nil
	}
	return d.StartFunc(ctx)
}

func (d *Dependency) Stop(ctx context.Context) error {
	if d.StopFunc == nil {
		return nil
	}
	return d.StopFunc(ctx)
}
