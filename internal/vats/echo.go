// Package vats supplies a couple of minimal kernel.Dispatch
// implementations for the CLI's --config topology files. Real vat
// behavior lives outside the core (kernel.Dispatch is implemented by
// whoever registers a vat); these are deliberately trivial, for
// smoke-testing a topology without writing Go.
package vats

import (
	"github.com/go-logr/logr"

	"github.com/vatkernel/vatkernel/kernel"
)

// Echo logs every delivery and notification it receives and, for any
// delivery carrying a result promise, resolves it to the received body
// verbatim. It never sends anything of its own accord.
type Echo struct {
	Log  logr.Logger
	Name string
}

func (e *Echo) Deliver(s kernel.Syscall, target kernel.InboundTarget, msg kernel.VatMessage) {
	e.Log.Info("deliver", "vat", e.Name, "target", target.String(), "method", msg.Method)
	if msg.Result != nil {
		s.Resolve(*msg.Result, kernel.VatResolution{
			Kind: kernel.ResolutionData,
			Data: msg.Args,
		})
	}
}

func (e *Echo) NotifyResolved(s kernel.Syscall, promise kernel.VatPromiseId, resolution kernel.VatResolution) {
	e.Log.Info("notify", "vat", e.Name, "promise", promise.String(), "kind", resolution.Kind)
}

// Silent drops every delivery and notification without responding. Useful
// as a bootstrap target that does nothing but receive the initial roots.
type Silent struct {
	Log  logr.Logger
	Name string
}

func (s *Silent) Deliver(sc kernel.Syscall, target kernel.InboundTarget, msg kernel.VatMessage) {
	s.Log.V(1).Info("deliver (ignored)", "vat", s.Name, "method", msg.Method)
}

func (s *Silent) NotifyResolved(sc kernel.Syscall, promise kernel.VatPromiseId, resolution kernel.VatResolution) {
	s.Log.V(1).Info("notify (ignored)", "vat", s.Name)
}
