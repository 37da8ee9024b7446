package kernel

// Dispatch is the capability the kernel holds for a registered vat (§6).
// The kernel invokes it synchronously, once per turn, to run the vat's
// reaction to either a message delivery or a promise resolution. A vat
// implementation is external to the core -- it is supplied by whoever
// registers the vat -- but the core defines and enforces this interface.
type Dispatch interface {
	// Deliver runs the vat's reaction to a message sent to target. The vat
	// may call syscall any number of times before returning; syscall is
	// invalidated the instant Deliver returns.
	Deliver(syscall Syscall, target InboundTarget, msg VatMessage)

	// NotifyResolved runs the vat's reaction to one of its subscribed
	// promises settling.
	NotifyResolved(syscall Syscall, promise VatPromiseId, resolution VatResolution)
}

// Syscall is the capability a vat uses to ask the kernel to do work
// during its turn (§6, §4.8). It is a short-lived borrow of the kernel's
// mutable state, valid only for the duration of the Dispatch call that
// received it; using it afterward is a programming error in the vat.
type Syscall interface {
	// Send queues a message addressed to target. If msg.Result is set, the
	// result promise's decider is the message's recipient.
	Send(target VatCapSlot, msg VatMessage)

	// Subscribe registers interest in pid's eventual resolution. If pid is
	// already resolved, a Notify is queued immediately.
	Subscribe(pid VatPromiseId)

	// Resolve settles pid, which the caller must be the decider of, and
	// notifies every current subscriber.
	Resolve(pid VatPromiseId, to VatResolution)
}
