// Package poller drives the homework status poll loop:
// fetch → validate → format → notify → sleep, forever.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alem-hub/homework-bot/config"
	"github.com/alem-hub/homework-bot/internal/domain/homework"
	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Fetcher returns the raw status payload for a window start (unix seconds).
type Fetcher interface {
	Fetch(ctx context.Context, windowStart int64) (homework.RawResponse, error)
}

// Notifier delivers text best-effort and reports whether it got through.
type Notifier interface {
	Notify(ctx context.Context, text string) bool
}

// Notification kinds used in logs and metrics.
const (
	kindStatus  = "status"
	kindFailure = "failure"
)

// failurePrefix starts every operator-facing failure message.
const failurePrefix = "Сбой в работе программы: "

// ══════════════════════════════════════════════════════════════════════════════
// CYCLE REPORT
// ══════════════════════════════════════════════════════════════════════════════

// Outcome is how a poll cycle ended.
type Outcome string

const (
	// OutcomeNotified - a status message was produced and handed to the notifier.
	OutcomeNotified Outcome = "notified"
	// OutcomeEmpty - no homework entries in the window; nothing to report.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFailed - fetch, validation or formatting failed.
	OutcomeFailed Outcome = "failed"
)

// CycleReport describes one completed poll cycle.
type CycleReport struct {
	ID          string
	StartedAt   time.Time
	WindowStart int64
	Outcome     Outcome
	Message     string
	Delivered   bool
	Err         error
}

// ══════════════════════════════════════════════════════════════════════════════
// DRIVER
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the Driver.
type Config struct {
	// Interval is the sleep between cycles (POLL_INTERVAL).
	Interval time.Duration

	// Credentials must all be set or New refuses to build the driver.
	Credentials config.Credentials

	// Catalog of status phrases; nil means homework.DefaultCatalog.
	Catalog homework.Catalog

	// Logger for structured logging.
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics

	// Clock, Sleep and NewID are overridable for tests.
	Clock func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
	NewID func() string
}

// Driver owns the poll window and runs cycles strictly one after another.
type Driver struct {
	interval  time.Duration
	fetcher   Fetcher
	notifier  Notifier
	formatter *homework.Formatter
	logger    *slog.Logger
	metrics   *Metrics
	clock     func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	newID     func() string

	// guarded for readers outside the loop (health endpoint)
	mu     sync.RWMutex
	window int64
	last   *CycleReport
}

// New creates a Driver. It fails if any credential is missing.
func New(cfg Config, fetcher Fetcher, notifier Notifier) (*Driver, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil || notifier == nil {
		return nil, fmt.Errorf("poller: fetcher and notifier are required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("poller: interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.New().String() }
	}

	return &Driver{
		interval:  cfg.Interval,
		fetcher:   fetcher,
		notifier:  notifier,
		formatter: homework.NewFormatter(cfg.Catalog),
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		clock:     cfg.Clock,
		sleep:     cfg.Sleep,
		newID:     cfg.NewID,
		window:    cfg.Clock().Unix(),
	}, nil
}

// Run executes cycles until ctx is cancelled, sleeping the full interval
// after every cycle whatever its outcome. It returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("poll driver started",
		"interval", d.interval.String(),
		"window_span", (2 * d.interval).String(),
	)

	for {
		d.RunCycle(ctx)

		if err := d.sleep(ctx, d.interval); err != nil {
			d.logger.Info("poll driver stopped", "reason", err.Error())
			return err
		}
	}
}

// RunCycle performs one fetch → validate → format → notify pass.
// Every failure is contained here; nothing escapes to the caller.
func (d *Driver) RunCycle(ctx context.Context) (report CycleReport) {
	now := d.clock()
	report = CycleReport{
		ID:          d.newID(),
		StartedAt:   now,
		WindowStart: now.Unix() - 2*int64(d.interval/time.Second),
	}
	log := d.logger.With("cycle_id", report.ID)

	// registered first, runs last: the window advances even after a panic
	defer func() { d.finish(log, now, report) }()
	defer func() {
		if r := recover(); r != nil {
			report.Message = ""
			report.Delivered = false
			d.fail(ctx, log, &report, fmt.Errorf("паника: %v", r))
		}
	}()

	log.Debug("poll cycle started", "from_date", report.WindowStart)

	message, outcome, err := d.produce(ctx, report.WindowStart)
	switch {
	case err != nil:
		d.fail(ctx, log, &report, err)
	case outcome == OutcomeEmpty:
		report.Outcome = OutcomeEmpty
		log.Debug("no homework status changes in window")
	default:
		report.Outcome = OutcomeNotified
		report.Message = message
		report.Delivered = d.notify(ctx, log, message)
		d.metrics.recordNotification(kindStatus, report.Delivered)
		if report.Delivered {
			log.Info("сообщение об изменении статуса проверки работы отправлено")
		}
	}

	return report
}

// produce runs the fetch/validate/format chain.
func (d *Driver) produce(ctx context.Context, windowStart int64) (string, Outcome, error) {
	started := time.Now()
	raw, err := d.fetcher.Fetch(ctx, windowStart)
	d.metrics.observeFetch(time.Since(started))
	if err != nil {
		return "", OutcomeFailed, err
	}

	extraction := homework.ExtractLatest(raw)
	switch extraction.Outcome {
	case homework.ExtractEmpty:
		return "", OutcomeEmpty, nil
	case homework.ExtractInvalid:
		return "", OutcomeFailed, extraction.Err
	}

	message, err := d.formatter.Format(extraction.Record)
	if err != nil {
		return "", OutcomeFailed, err
	}
	return message, OutcomeNotified, nil
}

// fail reports an unexpected error to the operator, best-effort.
func (d *Driver) fail(ctx context.Context, log *slog.Logger, report *CycleReport, err error) {
	report.Outcome = OutcomeFailed
	report.Err = err

	text := failurePrefix + err.Error()
	log.Error(text, "error", err)

	delivered := d.notify(ctx, log, text)
	d.metrics.recordNotification(kindFailure, delivered)
}

// notify hands text to the notifier; a panicking notifier counts as
// an undelivered message.
func (d *Driver) notify(ctx context.Context, log *slog.Logger, text string) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("notifier panicked", "panic", fmt.Sprint(r))
			delivered = false
		}
	}()
	return d.notifier.Notify(ctx, text)
}

// finish advances the window to the cycle start and records the report.
func (d *Driver) finish(log *slog.Logger, now time.Time, report CycleReport) {
	d.mu.Lock()
	d.window = now.Unix()
	d.last = &report
	d.mu.Unlock()

	d.metrics.setWindow(now.Unix())
	d.metrics.recordCycle(report.Outcome)

	log.Debug("poll cycle finished",
		"outcome", string(report.Outcome),
		"duration", d.clock().Sub(now).String(),
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Window returns the current poll window (unix seconds).
func (d *Driver) Window() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.window
}

// LastCycle returns the most recent cycle report, if any.
func (d *Driver) LastCycle() (CycleReport, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.last == nil {
		return CycleReport{}, false
	}
	return *d.last, true
}

// Interval returns the sleep between cycles.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// CheckHealth fails when no cycle has finished within three intervals.
func (d *Driver) CheckHealth(ctx context.Context) error {
	d.mu.RLock()
	window := d.window
	last := d.last
	d.mu.RUnlock()

	age := d.clock().Sub(time.Unix(window, 0))
	if age > 3*d.interval {
		return fmt.Errorf("no poll cycle for %s", age.Round(time.Second))
	}
	if last != nil && last.Outcome == OutcomeFailed {
		return fmt.Errorf("last cycle failed: %v", last.Err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
