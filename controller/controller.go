// Package controller wraps a *kernel.Kernel with the operational surface
// the core itself deliberately has none of: structured logging and a
// context-cancellable run loop. The kernel's Step/Run remain synchronous
// and context-free -- a turn, once started, always runs to completion
// regardless of context state; context is only ever checked between
// turns.
package controller

import (
	"github.com/go-logr/logr"
	"golang.org/x/net/context"

	"github.com/vatkernel/vatkernel/kernel"
)

// Controller drives a kernel and logs the fatal errors recovered from its
// turns. It holds no state of its own beyond the kernel and logger: it
// is a façade, not a second copy of kernel state.
type Controller struct {
	Kernel *kernel.Kernel
	Log    logr.Logger
}

// New wraps an existing kernel with a logger. Passing logr.Discard()
// yields a silent controller, e.g. for tests.
func New(k *kernel.Kernel, log logr.Logger) *Controller {
	return &Controller{Kernel: k, Log: log}
}

// Step runs exactly one pending delivery, logging a recovered fatal error
// (if the vat's Dispatch panicked with one -- see kernel.FatalError)
// rather than letting it escape and crash the whole process. It returns
// whether any work was actually done.
func (c *Controller) Step() (didWork bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*kernel.FatalError); ok {
				c.Log.Error(fe, "fatal error processing turn")
				err = fe
				return
			}
			panic(r)
		}
	}()
	didWork = c.Kernel.Step()
	return didWork, nil
}

// Run drains the queue, or stops early if ctx is canceled between turns.
// ctx is never consulted mid-turn: a turn that has already started always
// finishes, preserving single-threaded, turn-atomic delivery.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.Log.V(1).Info("run loop canceled", "queueLen", c.Kernel.QueueLen())
			return ctx.Err()
		default:
		}
		didWork, err := c.Step()
		if err != nil {
			return err
		}
		if !didWork {
			return nil
		}
	}
}

// RunN processes up to n turns (or until the queue empties, whichever
// comes first) -- used by the CLI's "step" subcommand for bounded,
// single-shot runs instead of draining to completion.
func (c *Controller) RunN(n int) (processed int, err error) {
	for i := 0; i < n; i++ {
		didWork, stepErr := c.Step()
		if stepErr != nil {
			return processed, stepErr
		}
		if !didWork {
			break
		}
		processed++
	}
	return processed, nil
}

// Dump returns the kernel's current deterministic debug text.
func (c *Controller) Dump() string {
	return c.Kernel.Dump()
}
