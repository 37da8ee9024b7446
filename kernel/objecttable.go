package kernel

// object is the kernel-side record of a pass-by-presence export: who owns
// it. Objects are never deleted within the core's scope.
type object struct {
	owner VatId
}

// ObjectTable is the registry of exported pass-by-presence objects. It is
// a total function from live ObjectId to owning VatId, and a fresh,
// monotonic allocator.
type ObjectTable struct {
	objects map[ObjectId]object
	next    uint32
}

// NewObjectTable returns an empty object table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{objects: make(map[ObjectId]object)}
}

// Allocate mints a fresh ObjectId owned by owner. Ids are monotonic and
// never reused.
func (t *ObjectTable) Allocate(owner VatId) ObjectId {
	id := ObjectId(t.next)
	t.next++
	t.objects[id] = object{owner: owner}
	return id
}

// OwnerOf returns the vat that owns id. It panics if id was never
// allocated: the object table is total over live ids, and any caller
// asking about an id it doesn't itself hold has already committed a
// confinement violation elsewhere.
func (t *ObjectTable) OwnerOf(id ObjectId) VatId {
	o, ok := t.objects[id]
	if !ok {
		panic(&FatalError{Kind: ErrConfinementViolation, Detail: "owner_of on unknown object " + id.String()})
	}
	return o.owner
}
