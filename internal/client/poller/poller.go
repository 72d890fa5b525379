// Package poller runs a job on a fixed interval until stopped.
//
// Ticks do not wait for each other: a slow job may overlap the next one.
// There is no backoff and no jitter.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/elite/internal/logging"
)

var ErrInvalidInterval = errors.New("poll interval must be positive")

// Job is one tick's work. ctx is canceled when the poller stops or, when a
// timeout is set, when the tick runs out of time.
type Job func(ctx context.Context)

type Options struct {
	// Timeout bounds each tick. Zero means no bound beyond Stop.
	Timeout time.Duration
	// Immediate runs the job once on Start instead of waiting a full interval.
	Immediate bool
	Logger    logging.Logger
}

type Poller struct {
	name     string
	interval time.Duration
	job      Job
	opts     Options
	logger   logging.Logger

	cron  *cron.Cron
	chain cron.Chain

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	extra   sync.WaitGroup
}

// New schedules job every interval. Sub-second intervals are rounded up to
// one second by the scheduler.
func New(name string, interval time.Duration, job Job, opts Options) (*Poller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("poller", name)

	p := &Poller{
		name:     name,
		interval: interval,
		job:      job,
		opts:     opts,
		logger:   logger,
	}

	cl := cronLogger{logger: logger}
	p.chain = cron.NewChain(cron.Recover(cl))
	p.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl)))
	return p, nil
}

// Start begins ticking. ctx is the parent of every tick's context; canceling
// it cancels running ticks but does not stop the schedule. Start is a no-op
// after the first call.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return nil
	}

	base, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.tick(base) }); err != nil {
		cancel()
		return fmt.Errorf("schedule %s: %w", p.name, err)
	}

	p.started = true
	p.cron.Start()
	p.logger.Debug(ctx, "poller started", "interval", p.interval)

	if p.opts.Immediate {
		p.extra.Add(1)
		go func() {
			defer p.extra.Done()
			p.chain.Then(cron.FuncJob(func() { p.tick(base) })).Run()
		}()
	}
	return nil
}

func (p *Poller) tick(base context.Context) {
	if base.Err() != nil {
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if p.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(base, p.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(base)
	}
	defer cancel()

	p.job(ctx)
}

// Stop removes the schedule, cancels running ticks and waits for them to
// return. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}

	p.cancel()
	<-p.cron.Stop().Done()
	p.extra.Wait()
	p.logger.Debug(context.Background(), "poller stopped")
}

// cronLogger feeds scheduler errors and recovered panics into our logger.
// Per-tick chatter is dropped.
type cronLogger struct {
	logger logging.Logger
}

func (cronLogger) Info(string, ...any) {}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(context.Background(), msg, append(keysAndValues, "error", err)...)
}
