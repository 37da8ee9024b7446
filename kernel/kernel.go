package kernel

import (
	"fmt"
	"sort"
	"strings"
)

// Kernel is the façade over the whole core (§4.9): it owns the object and
// promise tables, every vat's c-lists, and the run queue, and is the only
// thing that can mutate any of them outside of the lifetime of a single
// syscall handle.
type Kernel struct {
	vats     []*vatData
	byName   map[string]VatId
	objects  *ObjectTable
	promises *PromiseTable
	queue    *runQueue
}

// New returns an empty kernel with no vats registered.
func New() *Kernel {
	return &Kernel{
		byName:   make(map[string]VatId),
		objects:  NewObjectTable(),
		promises: NewPromiseTable(),
		queue:    newRunQueue(),
	}
}

// AddVat registers a new vat under name, assigns it the next VatId,
// allocates its root object, and pre-binds that root to vat-local id 0.
// It returns the assigned VatId.
func (k *Kernel) AddVat(name string, dispatch Dispatch) VatId {
	id := VatId(len(k.vats))
	vd := newVatData(id, name, dispatch)
	root := k.objects.Allocate(id)
	// add, not map_inbound: the root is being pre-bound, not discovered.
	if err := vd.objectCList.add(root, VatObjectId(0)); err != nil {
		panic(err)
	}
	k.vats = append(k.vats, vd)
	k.byName[name] = id
	return id
}

func (k *Kernel) vat(id VatId) *vatData {
	if int(id) >= len(k.vats) {
		panic(&FatalError{Kind: ErrMissingVat, Detail: fmt.Sprintf("no such vat %s", id)})
	}
	return k.vats[id]
}

// VatByName resolves a registered vat's name to its VatId.
func (k *Kernel) VatByName(name string) (VatId, bool) {
	id, ok := k.byName[name]
	return id, ok
}

// RootOf returns id's root ObjectId -- the kernel-side object backing
// vat-local export 0, always present once a vat is registered.
func (k *Kernel) RootOf(id VatId) ObjectId {
	vd := k.vat(id)
	root, ok := vd.objectCList.getOutbound(VatObjectId(0))
	if !ok {
		panic(&FatalError{Kind: ErrConfinementViolation, Detail: "vat has no root"})
	}
	return root
}

// AddImportExport wires fromVat's negativeImport id to toVat's
// positiveExport id: the mechanism tests (and the config front-end) use
// to hand one vat a reference into another before boot. It ensures toVat
// has a kernel object for its export (allocating one if this is the
// export's first mention), then records the import mapping in fromVat's
// c-list directly via add, so later references to the same vat-local id
// on fromVat's side collide correctly instead of silently reallocating.
func (k *Kernel) AddImportExport(fromVat VatId, negativeImport VatObjectId, toVat VatId, positiveExport VatObjectId) error {
	to := k.vat(toVat)
	kid, err := to.objectCList.mapOutbound(positiveExport, func() ObjectId { return k.objects.Allocate(toVat) })
	if err != nil {
		return err
	}
	from := k.vat(fromVat)
	return from.objectCList.add(kid, negativeImport)
}

// PushBootstrap enqueues the initial "bootstrap" delivery to
// bootstrapVat's root object, carrying every registered vat's root object
// (in name-sorted order, for determinism) as argument slots. It carries
// no result promise.
func (k *Kernel) PushBootstrap(bootstrapVat VatId) error {
	boot := k.vat(bootstrapVat)
	root, ok := boot.objectCList.getOutbound(VatObjectId(0))
	if !ok {
		return &FatalError{Kind: ErrConfinementViolation, Detail: "bootstrap vat has no root"}
	}

	names := make([]string, 0, len(k.byName))
	for name := range k.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	slots := make([]CapSlot, 0, len(names))
	for _, name := range names {
		id := k.byName[name]
		vd := k.vat(id)
		vroot, ok := vd.objectCList.getOutbound(VatObjectId(0))
		if !ok {
			return &FatalError{Kind: ErrConfinementViolation, Detail: "vat " + name + " has no root"}
		}
		slots = append(slots, NewObjectSlot(vroot))
	}

	k.queue.enqueue(newDeliver(NewObjectSlot(root), Message{
		Method: "bootstrap",
		Args:   CapData{Slots: slots},
	}))
	return nil
}

// PushDeliver injects an externally-originated delivery, addressed
// directly to a kernel ObjectId, with no result promise. This is how a
// device or test harness can kick off activity without going through a
// vat's syscalls.
func (k *Kernel) PushDeliver(object ObjectId, method string, body []byte, slots []CapSlot) {
	k.queue.enqueue(newDeliver(NewObjectSlot(object), Message{
		Method: method,
		Args:   CapData{Body: body, Slots: slots},
	}))
}

// Step pops and processes exactly one PendingDelivery. It returns false
// if the queue was empty (no work was done).
func (k *Kernel) Step() bool {
	pd, ok := k.queue.pop()
	if !ok {
		return false
	}
	k.process(pd)
	return true
}

// Run processes PendingDeliverys until the queue is empty.
func (k *Kernel) Run() {
	for k.Step() {
	}
}

// QueueLen reports how many deliveries are currently queued.
func (k *Kernel) QueueLen() int {
	return k.queue.Len()
}

// Dump renders the current run queue as deterministic debug text (§3.1,
// §6: never a wire or on-disk format, purely for human inspection).
func (k *Kernel) Dump() string {
	var sb strings.Builder
	pending := k.queue.pending()
	fmt.Fprintf(&sb, "run queue (%d pending):\n", len(pending))
	for i, pd := range pending {
		fmt.Fprintf(&sb, "  [%d] %s\n", i, pd.String())
	}
	return sb.String()
}

// process runs one PendingDelivery to completion: classify (for
// Deliver), map inbound, and invoke the recipient vat's Dispatch. A
// syscall handle borrows k for the duration of the call only.
func (k *Kernel) process(pd PendingDelivery) {
	switch pd.Kind {
	case KindDeliver:
		k.processDeliver(pd.Target, pd.Message)
	case KindNotify:
		k.processNotify(pd.Vat, pd.Promise, pd.Resolution)
	default:
		panic("process: bad pending delivery kind")
	}
}

func (k *Kernel) processDeliver(target CapSlot, msg Message) {
	c := classifyTarget(k.objects, k.promises, target)
	if c.kind == classifyError {
		if msg.Result != nil {
			k.rejectResultPromise(*msg.Result, c.errData)
		}
		return
	}
	vd := k.vat(c.recipient)
	inTarget := mapInboundTarget(vd, k.objects, k.promises, target)
	inMsg := mapInboundMessage(vd, k.objects, k.promises, msg)
	sc := &syscallHandle{k: k, vd: vd}
	vd.dispatch.Deliver(sc, inTarget, inMsg)
	sc.invalidate()
}

func (k *Kernel) processNotify(vatID VatId, promise PromiseId, resolution Resolution) {
	vd := k.vat(vatID)
	vpid := mapInboundPromise(vd, k.promises, promise)
	vres := mapInboundResolution(vd, k.objects, k.promises, resolution)
	sc := &syscallHandle{k: k, vd: vd}
	vd.dispatch.NotifyResolved(sc, vpid, vres)
	sc.invalidate()
}

// rejectResultPromise immediately settles a dead-letter send's result
// promise as rejected, and enqueues the corresponding notifications. It
// is used both by processDeliver (target already resolved to data/error
// at classification time) and by Syscall.Send (target classified as
// undeliverable at send time).
func (k *Kernel) rejectResultPromise(id PromiseId, errData CapData) {
	subs, err := k.promises.Resolve(id, Resolution{Kind: ResolutionRejection, Data: errData})
	if err != nil {
		// The result promise was only just allocated for this send and
		// cannot already be resolved; a failure here means the core itself
		// is broken, not that the vat misbehaved.
		panic(err)
	}
	for _, sub := range subs {
		k.queue.enqueue(newNotify(sub, id, Resolution{Kind: ResolutionRejection, Data: errData}))
	}
}
