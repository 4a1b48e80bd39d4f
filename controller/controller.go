// Package controller runs register and resolve operations one at a time and
// exposes their progress and outcome to the presentation layer.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/ruteri/arc-name-service/metrics"
)

const (
	OpRegister = "register"
	OpResolve  = "resolve"
)

const (
	dropEmpty = "empty"
	dropBusy  = "busy"
)

// State is an immutable snapshot of a controller.
type State struct {
	Panel      string
	InFlight   bool
	HasOutcome bool
	Outcome    interfaces.Outcome

	// Version increases on every transition.
	Version uint64
}

// Controller owns a single operation panel. At most one operation is in
// flight per controller; triggers arriving meanwhile are dropped.
type Controller struct {
	panel    string
	gateway  interfaces.LedgerGateway
	provider interfaces.CapabilityProvider
	metrics  *metrics.Metrics
	log      *slog.Logger

	inFlight atomic.Bool

	mu          sync.Mutex
	last        *interfaces.Outcome
	version     uint64
	subscribers map[uint64]chan State
	nextSubID   uint64
}

// New creates a controller for panel. provider may be nil when no wallet is
// configured, in which case every registration fails with
// interfaces.ErrCapabilityUnavailable. m may be nil.
func New(panel string, gateway interfaces.LedgerGateway, provider interfaces.CapabilityProvider, m *metrics.Metrics, log *slog.Logger) *Controller {
	return &Controller{
		panel:       panel,
		gateway:     gateway,
		provider:    provider,
		metrics:     m,
		log:         log.With("panel", panel),
		subscribers: make(map[uint64]chan State),
	}
}

// RunRegister registers raw and blocks until the outcome is settled. The
// second return value is false if the trigger was dropped.
func (c *Controller) RunRegister(ctx context.Context, raw string) (interfaces.Outcome, bool) {
	if !c.acquire(OpRegister, raw) {
		return interfaces.Outcome{}, false
	}
	return c.execute(ctx, OpRegister, raw, c.register), true
}

// RunResolve resolves raw and blocks until the outcome is settled. The second
// return value is false if the trigger was dropped.
func (c *Controller) RunResolve(ctx context.Context, raw string) (interfaces.Outcome, bool) {
	if !c.acquire(OpResolve, raw) {
		return interfaces.Outcome{}, false
	}
	return c.execute(ctx, OpResolve, raw, c.resolve), true
}

// TriggerRegister starts a registration in the background. It returns false
// without doing anything if raw is empty or an operation is in flight.
func (c *Controller) TriggerRegister(ctx context.Context, raw string) bool {
	if !c.acquire(OpRegister, raw) {
		return false
	}
	go c.execute(ctx, OpRegister, raw, c.register)
	return true
}

// TriggerResolve starts a resolution in the background. It returns false
// without doing anything if raw is empty or an operation is in flight.
func (c *Controller) TriggerResolve(ctx context.Context, raw string) bool {
	if !c.acquire(OpResolve, raw) {
		return false
	}
	go c.execute(ctx, OpResolve, raw, c.resolve)
	return true
}

// InFlight reports whether an operation is running.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

// LastOutcome returns the outcome of the most recent settled operation.
func (c *Controller) LastOutcome() (interfaces.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		return interfaces.Outcome{}, false
	}
	return *c.last, true
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot on every transition and a
// function to stop the subscription. The channel holds only the latest
// snapshot; slow readers skip intermediate ones.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++

	ch := make(chan State, 1)
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
}

// acquire marks the controller busy. It must run synchronously in the
// caller's goroutine, before anything that can block.
func (c *Controller) acquire(op, raw string) bool {
	if raw == "" {
		c.metrics.IncrementDropped(op, dropEmpty)
		return false
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		c.metrics.IncrementDropped(op, dropBusy)
		c.log.Debug("Operation already in flight, dropping trigger", "op", op)
		return false
	}

	c.mu.Lock()
	c.publishLocked()
	c.mu.Unlock()
	return true
}

type operation func(ctx context.Context, log *slog.Logger, raw string) interfaces.Outcome

func (c *Controller) execute(ctx context.Context, op, raw string, fn operation) (outcome interfaces.Outcome) {
	log := c.log.With("op", op, "opID", uuid.New().String())
	start := time.Now()

	settled := false
	defer func() {
		if r := recover(); r != nil {
			log.Error("Operation panicked", "panic", r)
			if settled {
				return
			}
			name, _ := interfaces.Canonicalize(raw)
			outcome = interfaces.Failed(name, fmt.Errorf("%s failed: %v", op, r))
			c.settle(outcome)
			c.metrics.ObserveOutcome(op, outcome.Kind.String(), time.Since(start))
		}
	}()

	outcome = fn(ctx, log, raw)
	c.settle(outcome)
	settled = true

	c.metrics.ObserveOutcome(op, outcome.Kind.String(), time.Since(start))
	if outcome.Kind == interfaces.OutcomeFailed {
		log.Warn("Operation failed", "name", outcome.Name, "err", outcome.Err)
	} else {
		log.Info("Operation settled", "name", outcome.Name, "outcome", outcome.Kind.String(), "duration", time.Since(start))
	}
	return outcome
}

func (c *Controller) register(ctx context.Context, log *slog.Logger, raw string) interfaces.Outcome {
	name, err := interfaces.Canonicalize(raw)
	if err != nil {
		return interfaces.Failed("", err)
	}

	if c.provider == nil {
		return interfaces.Failed(name, interfaces.ErrCapabilityUnavailable)
	}

	capability, err := c.provider.Acquire(ctx)
	if err != nil {
		return interfaces.Failed(name, err)
	}
	if capability == nil {
		return interfaces.Failed(name, interfaces.ErrCapabilityUnavailable)
	}

	log.Debug("Wallet capability acquired", "name", name, "account", capability.Account.Hex())

	receipt, err := c.gateway.Register(ctx, capability, name)
	if err != nil {
		return interfaces.Failed(name, err)
	}
	if receipt == nil {
		return interfaces.Failed(name, fmt.Errorf("no receipt for registration of %s", name))
	}

	return interfaces.Registered(name, receipt.TxHash)
}

func (c *Controller) resolve(ctx context.Context, log *slog.Logger, raw string) interfaces.Outcome {
	name, err := interfaces.Canonicalize(raw)
	if err != nil {
		return interfaces.Failed("", err)
	}

	addr, err := c.gateway.Resolve(ctx, name)
	if err != nil {
		return interfaces.Failed(name, err)
	}

	log.Debug("Name resolved", "name", name, "address", addr.Hex())
	return interfaces.Interpret(addr, name)
}

// settle records the outcome and clears the in-flight flag in one step, so
// observers never see the flag set together with the new outcome.
func (c *Controller) settle(outcome interfaces.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last = &outcome
	c.inFlight.Store(false)
	c.publishLocked()
}

func (c *Controller) snapshotLocked() State {
	s := State{
		Panel:    c.panel,
		InFlight: c.inFlight.Load(),
		Version:  c.version,
	}
	if c.last != nil {
		s.HasOutcome = true
		s.Outcome = *c.last
	}
	return s
}

func (c *Controller) publishLocked() {
	c.version++
	s := c.snapshotLocked()

	for _, ch := range c.subscribers {
		select {
		case ch <- s:
		default:
			// Replace the unread snapshot with the latest one
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}
