package kernel

import "sort"

// promiseStateKind is a promise's lifecycle: an unresolved promise carries
// a decider and a subscriber set; once resolved, it settles permanently
// onto a target, onto data, or onto a rejection.
type promiseStateKind uint8

const (
	stateUnresolved promiseStateKind = iota
	stateFulfilledToTarget
	stateFulfilledToData
	stateRejected
)

// promise is the kernel-side record for one PromiseId: who introduced it,
// and its current state.
type promise struct {
	allocator VatId
	state     pState
}

type pState struct {
	kind        promiseStateKind
	decider     VatId
	subscribers map[VatId]struct{}
	target      ObjectId
	data        CapData
}

// PromiseTable is the registry of promises: who allocated each one, and
// its resolution state machine.
type PromiseTable struct {
	promises map[PromiseId]*promise
	next     uint32
}

// NewPromiseTable returns an empty promise table.
func NewPromiseTable() *PromiseTable {
	return &PromiseTable{promises: make(map[PromiseId]*promise)}
}

// AllocateUnresolved mints a fresh PromiseId, introduced by allocator,
// initially unresolved with decider as its sole authority to resolve it.
func (t *PromiseTable) AllocateUnresolved(decider, allocator VatId) PromiseId {
	id := PromiseId(t.next)
	t.next++
	t.promises[id] = &promise{
		allocator: allocator,
		state: pState{
			kind:        stateUnresolved,
			decider:     decider,
			subscribers: make(map[VatId]struct{}),
		},
	}
	return id
}

func (t *PromiseTable) mustGet(id PromiseId) *promise {
	p, ok := t.promises[id]
	if !ok {
		panic(&FatalError{Kind: ErrConfinementViolation, Detail: "unknown promise " + id.String()})
	}
	return p
}

// DeciderOf returns the promise's decider, and true, iff it is still
// unresolved. A resolved promise has no decider.
func (t *PromiseTable) DeciderOf(id PromiseId) (VatId, bool) {
	p := t.mustGet(id)
	if p.state.kind != stateUnresolved {
		return 0, false
	}
	return p.state.decider, true
}

// AllocatorOf returns the vat that introduced id into the system.
func (t *PromiseTable) AllocatorOf(id PromiseId) VatId {
	return t.mustGet(id).allocator
}

// Subscribe registers vat as a subscriber of id. It fails if id is not
// currently unresolved: subscribers only ever mutate while pending.
func (t *PromiseTable) Subscribe(id PromiseId, vat VatId) error {
	p := t.mustGet(id)
	if p.state.kind != stateUnresolved {
		return &FatalError{Kind: ErrUnauthorizedResolve, Detail: "subscribe on resolved promise " + id.String()}
	}
	p.state.subscribers[vat] = struct{}{}
	return nil
}

// SubscribersOf returns id's current subscribers in deterministic
// (VatId-sorted) order, since it fixes the order in which vats are
// notified after a resolve and dispatch reproducibility depends on that
// order being stable across runs.
func (t *PromiseTable) SubscribersOf(id PromiseId) []VatId {
	p := t.mustGet(id)
	out := make([]VatId, 0, len(p.state.subscribers))
	for v := range p.state.subscribers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsUnresolved reports whether id is still pending.
func (t *PromiseTable) IsUnresolved(id PromiseId) bool {
	return t.mustGet(id).state.kind == stateUnresolved
}

// CurrentResolution returns the Resolution a newly-subscribing vat should
// be notified of, for a promise that is already resolved. It panics if id
// is still unresolved -- callers must check IsUnresolved first.
func (t *PromiseTable) CurrentResolution(id PromiseId) Resolution {
	p := t.mustGet(id)
	switch p.state.kind {
	case stateFulfilledToTarget:
		return Resolution{Kind: ResolutionReference, Reference: NewObjectSlot(p.state.target)}
	case stateFulfilledToData:
		return Resolution{Kind: ResolutionData, Data: p.state.data}
	case stateRejected:
		return Resolution{Kind: ResolutionRejection, Data: p.state.data}
	default:
		panic("CurrentResolution on unresolved promise")
	}
}

// Resolve transitions id from Unresolved to one of the three terminal
// states, returning the subscriber set that must now be notified (sorted).
// It fails if id is not currently unresolved: resolution happens exactly
// once.
func (t *PromiseTable) Resolve(id PromiseId, res Resolution) ([]VatId, error) {
	p := t.mustGet(id)
	if p.state.kind != stateUnresolved {
		return nil, &FatalError{Kind: ErrUnauthorizedResolve, Detail: "promise " + id.String() + " already resolved"}
	}
	subs := make([]VatId, 0, len(p.state.subscribers))
	for v := range p.state.subscribers {
		subs = append(subs, v)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })

	switch res.Kind {
	case ResolutionReference:
		if res.Reference.Kind != SlotObject {
			// A promise can only settle onto an object target, never onto
			// another promise -- there is no promise-to-promise forwarding
			// in this model.
			return nil, &FatalError{Kind: ErrUnauthorizedResolve, Detail: "cannot resolve a promise onto another promise"}
		}
		p.state = pState{kind: stateFulfilledToTarget, target: res.Reference.Object}
	case ResolutionData:
		p.state = pState{kind: stateFulfilledToData, data: res.Data}
	case ResolutionRejection:
		p.state = pState{kind: stateRejected, data: res.Data}
	}
	return subs, nil
}
