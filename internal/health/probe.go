package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
)

const (
	// DefaultTimeout bounds how long Wait polls a container.
	DefaultTimeout = 60 * time.Second

	// DefaultInterval is the pause between liveness checks.
	DefaultInterval = 5 * time.Second
)

// Probe polls a container until it answers a liveness command.
type Probe struct {
	Runtime     runtime.Runtime
	Timeout     time.Duration
	Interval    time.Duration
	Diagnostics Collector

	// Clock and Timer default to wall-clock time.
	Clock Clock
	Timer backoff.Timer
}

// NewProbe creates a probe with default timing and diagnostics.
func NewProbe(rt runtime.Runtime) *Probe {
	return &Probe{
		Runtime:     rt,
		Timeout:     DefaultTimeout,
		Interval:    DefaultInterval,
		Diagnostics: NewDiagnostics(rt),
	}
}

// deadlineBackOff waits a constant interval and stops once another
// interval would reach the timeout.
type deadlineBackOff struct {
	interval backoff.BackOff
	step     time.Duration
	timeout  time.Duration
	clock    Clock
	start    time.Time
}

func (b *deadlineBackOff) Reset() {
	b.interval.Reset()
	b.start = b.clock.Now()
}

func (b *deadlineBackOff) NextBackOff() time.Duration {
	if b.clock.Now().Sub(b.start)+b.step >= b.timeout {
		return backoff.Stop
	}
	return b.interval.NextBackOff()
}

// Wait blocks until the container is ready, the timeout elapses or ctx is
// cancelled. Every attempt issues a fresh liveness command.
func (p *Probe) Wait(ctx context.Context, name string) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clock := p.Clock
	if clock == nil {
		clock = realClock{}
	}
	timer := p.Timer
	if timer == nil {
		timer = &realTimer{}
	}

	b := &deadlineBackOff{
		interval: backoff.NewConstantBackOff(interval),
		step:     interval,
		timeout:  timeout,
		clock:    clock,
	}

	attempts := 0
	start := clock.Now()
	check := func() error {
		attempts++
		err := p.check(ctx, name)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		logging.Debug("liveness check failed", "container", name, "attempt", attempts, "error", err)
		if p.Diagnostics != nil {
			p.Diagnostics.Collect(ctx, name, err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		logging.Info("waiting for container", "container", name, "retry_in", next, "elapsed", clock.Now().Sub(start).Round(time.Millisecond))
	}

	err := backoff.RetryNotifyWithTimer(check, backoff.WithContext(b, ctx), notify, timer)
	if err == nil {
		logging.Debug("container ready", "container", name, "attempts", attempts)
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	elapsed := clock.Now().Sub(start)
	return errors.ContainerNotReady(name, timeout,
		fmt.Errorf("gave up after %d attempts in %s: %w", attempts, elapsed.Round(time.Millisecond), err))
}

func (p *Probe) check(ctx context.Context, name string) error {
	out, err := p.Runtime.Probe(ctx, name)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("liveness check exited with status %d: %s", out.ExitCode, strings.TrimSpace(out.String()))
	}
	return nil
}
