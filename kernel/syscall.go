package kernel

// syscallHandle is the short-lived Syscall implementation handed to a vat
// for the duration of exactly one Dispatch call (§4.7, §4.9: "a syscall
// handle borrows the kernel's mutable state for the duration of one
// dispatch call only; it is invalidated on return"). Calling any method on
// a handle after its owning turn has finished is a programming error.
type syscallHandle struct {
	k    *Kernel
	vd   *vatData
	done bool
}

func (s *syscallHandle) invalidate() { s.done = true }

func (s *syscallHandle) checkLive() {
	if s.done {
		panic("kernel: syscall handle used after its turn ended")
	}
}

// Send implements §4.8: outbound-map the target first, so the kernel
// knows its category and (if sendable) its decider/owner. A target that
// classifies as an Error is a dead letter: any result promise is
// immediately rejected rather than queued for delivery. Otherwise a
// result promise is allocated (decider = recipient) if requested, the
// arguments are outbound-mapped, and a Deliver is queued.
func (s *syscallHandle) Send(target VatCapSlot, msg VatMessage) {
	s.checkLive()
	k := s.k
	vd := s.vd

	ktarget, err := mapOutboundSlot(vd, k.objects, k.promises, target)
	if err != nil {
		panic(err)
	}

	c := classifyTarget(k.objects, k.promises, ktarget)
	if c.kind == classifyError {
		if msg.Result != nil {
			rid, err := mapOutboundResultPromise(vd, k.promises, vd.id, *msg.Result)
			if err != nil {
				panic(err)
			}
			k.rejectResultPromise(rid, c.errData)
		}
		return
	}

	kmsg, err := mapOutboundSend(vd, k.objects, k.promises, c.recipient, msg)
	if err != nil {
		panic(err)
	}
	k.queue.enqueue(newDeliver(ktarget, kmsg))
}

// Subscribe implements §4.8: outbound-map pid; if it is still unresolved,
// register the caller as a subscriber; if it has already settled, queue
// an immediate Notify carrying the current resolution instead (§8's
// boundary behavior: exactly one Notify, before any subsequently queued
// work, since it is enqueued synchronously here).
func (s *syscallHandle) Subscribe(pid VatPromiseId) {
	s.checkLive()
	k := s.k
	vd := s.vd

	kpid, err := getOutboundPromise(vd, pid)
	if err != nil {
		panic(err)
	}

	if k.promises.IsUnresolved(kpid) {
		if err := k.promises.Subscribe(kpid, vd.id); err != nil {
			panic(err)
		}
		return
	}
	res := k.promises.CurrentResolution(kpid)
	k.queue.enqueue(newNotify(vd.id, kpid, res))
}

// Resolve implements §4.8: outbound-map pid, check the precondition
// (unresolved, caller is decider), transition its state, and enqueue a
// Notify to every current subscriber, in sorted order, each carrying an
// outbound-mapped (from the resolver's perspective) Resolution.
func (s *syscallHandle) Resolve(pid VatPromiseId, to VatResolution) {
	s.checkLive()
	k := s.k
	vd := s.vd

	kpid, err := getOutboundPromise(vd, pid)
	if err != nil {
		panic(err)
	}

	if decider, ok := k.promises.DeciderOf(kpid); !ok || decider != vd.id {
		panic(&FatalError{Kind: ErrUnauthorizedResolve, Detail: "resolve called by non-decider or on resolved promise"})
	}

	kres, err := mapOutboundResolution(vd, k.objects, k.promises, to)
	if err != nil {
		panic(err)
	}

	subs, err := k.promises.Resolve(kpid, kres)
	if err != nil {
		panic(err)
	}
	for _, sub := range subs {
		k.queue.enqueue(newNotify(sub, kpid, kres))
	}
}
