package server

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/pushfold/internal/profile"
	"github.com/lox/pushfold/strategy"
)

// Reloader re-reads the active table's file when its modification time
// changes. A file that fails to load leaves the current table in place.
type Reloader struct {
	holder   *strategy.Holder
	clock    quartz.Clock
	interval time.Duration
	logger   zerolog.Logger

	// failed is the modification time of the last file that failed to load,
	// so each broken version is reported once.
	failed time.Time
}

// NewReloader returns a reloader checking every interval.
func NewReloader(holder *strategy.Holder, interval time.Duration, clock quartz.Clock, logger zerolog.Logger) *Reloader {
	return &Reloader{
		holder:   holder,
		clock:    clock,
		interval: interval,
		logger:   logger.With().Str("component", "reloader").Logger(),
	}
}

// Start schedules checks until ctx is cancelled.
func (r *Reloader) Start(ctx context.Context) quartz.Waiter {
	return r.clock.TickerFunc(ctx, r.interval, func() error {
		r.Check()
		return nil
	}, "reloader")
}

// Run checks until ctx is cancelled. A non-positive interval disables
// reloading.
func (r *Reloader) Run(ctx context.Context) error {
	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	r.logger.Info().Dur("interval", r.interval).Msg("Watching active profile for changes")
	err := r.Start(ctx).Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Check reloads the active table if its file changed. It reports whether a
// new table was published.
func (r *Reloader) Check() bool {
	current := r.holder.Current()
	if current == nil || current.Path == "" {
		return false
	}
	info, err := os.Stat(current.Path)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", current.Path).Msg("Cannot stat active profile")
		return false
	}
	mod := info.ModTime()
	if mod.Equal(current.ModTime) || mod.Equal(r.failed) {
		return false
	}

	next, err := profile.LoadFile(current.Name, current.Path)
	if err != nil {
		r.failed = mod
		r.logger.Error().Err(err).Str("profile", current.Name).Msg("Reload failed, keeping current table")
		return false
	}
	if !r.holder.CompareAndSwap(current, next) {
		r.logger.Debug().Str("profile", current.Name).Msg("Active profile changed during reload")
		return false
	}
	r.logger.Info().Str("profile", current.Name).Time("modified", next.ModTime).Msg("Reloaded profile")
	return true
}
