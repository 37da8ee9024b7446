package kernel

// clist is a per-vat bijective map between kernel-side identifiers (K) and
// vat-local identifiers (V). It is the translation table that lets a vat
// name kernel entities by small integers of its own choosing, while the
// kernel never exposes its global identifier space directly.
//
// The two directions always agree: get_inbound(k) == v iff get_outbound(v)
// == k. allocate is invoked only by mapInbound, to mint a fresh vat-local
// id for a kernel id the vat has never seen before; the spec's REDESIGN
// note permits substituting a (Local|Kernel, index) pair for the source's
// signed-integer convention, but requires preserving "positive = introduced
// by this vat" — allocate is how that invariant is upheld on the negative
// side.
type clist[K comparable, V comparable] struct {
	inbound  map[K]V
	outbound map[V]K
	allocate func(nextIndex int32) V
	next     int32
}

// newCList builds an empty clist. allocate mints a fresh vat-local id from
// a decreasing index (starting at -1) each time map_inbound encounters an
// unfamiliar kernel id.
func newCList[K comparable, V comparable](allocate func(nextIndex int32) V) *clist[K, V] {
	return &clist[K, V]{
		inbound:  make(map[K]V),
		outbound: make(map[V]K),
		allocate: allocate,
	}
}

// add inserts a new (kernel, vat) pair. It fails if either side is
// already present: this is the only way a vat-allocated export gets
// registered, and duplicate registration is a confinement-adjacent bug in
// the caller.
func (c *clist[K, V]) add(k K, v V) error {
	if _, ok := c.inbound[k]; ok {
		return &FatalError{Kind: ErrDuplicateRegistration, Detail: "kernel id already present in c-list"}
	}
	if _, ok := c.outbound[v]; ok {
		return &FatalError{Kind: ErrDuplicateRegistration, Detail: "vat id already present in c-list"}
	}
	c.inbound[k] = v
	c.outbound[v] = k
	return nil
}

// getInbound is a pure lookup from kernel id to vat id.
func (c *clist[K, V]) getInbound(k K) (V, bool) {
	v, ok := c.inbound[k]
	return v, ok
}

// getOutbound is a pure lookup from vat id to kernel id.
func (c *clist[K, V]) getOutbound(v V) (K, bool) {
	k, ok := c.outbound[v]
	return k, ok
}

// mapInbound looks up the vat id for a kernel id, allocating and recording
// a fresh one (via allocate) if this is the first time the vat has seen
// this kernel id.
func (c *clist[K, V]) mapInbound(k K) V {
	if v, ok := c.inbound[k]; ok {
		return v
	}
	c.next--
	v := c.allocate(c.next)
	c.inbound[k] = v
	c.outbound[v] = k
	return v
}

// mapOutbound looks up the kernel id for a vat id, invoking newKernelID to
// mint one (and recording the pair) if the vat id has never been sent
// outbound before. newKernelID is nil for import/positive-confined paths,
// in which case a miss is a confinement violation, not an allocation
// opportunity.
func (c *clist[K, V]) mapOutbound(v V, newKernelID func() K) (K, error) {
	if k, ok := c.outbound[v]; ok {
		return k, nil
	}
	if newKernelID == nil {
		var zero K
		return zero, &FatalError{Kind: ErrConfinementViolation, Detail: "vat referenced an id it was never granted"}
	}
	k := newKernelID()
	c.inbound[k] = v
	c.outbound[v] = k
	return k, nil
}
