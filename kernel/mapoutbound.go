package kernel

// This file translates vat-domain values emitted by vd's vat into
// kernel-domain values (§4.5). Unlike the inbound direction, this side can
// allocate in the kernel's object/promise tables: the first time a vat
// mentions one of its own exports, or introduces a brand-new promise, is
// exactly when that entity is born into the kernel's global namespace.

// mapOutboundObject maps a vat-local object id into a kernel ObjectId. If
// vid is a positive export vd has never sent outbound before, this is what
// births its kernel-side ObjectId (owner = vd). If vid is a negative
// import, it must already be in vd's c-list: forging an import you were
// never granted is a confinement violation, so no allocator is offered to
// the c-list for that case.
func mapOutboundObject(vd *vatData, ot *ObjectTable, vid VatObjectId) (ObjectId, error) {
	var allocate func() ObjectId
	if vid.IsExport() {
		allocate = func() ObjectId { return ot.Allocate(vd.id) }
	}
	return vd.objectCList.mapOutbound(vid, allocate)
}

// mapOutboundPromise maps a vat-local promise id that the vat is
// introducing on its own behalf (not as a message's result promise): the
// vat itself is both decider and allocator of anything it mints this way.
func mapOutboundPromise(vd *vatData, pt *PromiseTable, vid VatPromiseId) (PromiseId, error) {
	var allocate func() PromiseId
	if vid.IsVatAllocated() {
		allocate = func() PromiseId { return pt.AllocateUnresolved(vd.id, vd.id) }
	}
	return vd.promiseCList.mapOutbound(vid, allocate)
}

// mapOutboundResultPromise maps the vat-local result promise attached to
// an outgoing send. The decider of a freshly-allocated result promise is
// the message's recipient, not the sender, since only the recipient will
// ever be positioned to answer it; the sender remains the allocator.
func mapOutboundResultPromise(vd *vatData, pt *PromiseTable, recipient VatId, vid VatPromiseId) (PromiseId, error) {
	var allocate func() PromiseId
	if vid.IsVatAllocated() {
		allocate = func() PromiseId { return pt.AllocateUnresolved(recipient, vd.id) }
	}
	return vd.promiseCList.mapOutbound(vid, allocate)
}

// mapOutboundSlot maps a vat-local CapSlot emitted as message argument
// data. Unlike a send target, a slot never carries a fresh result
// promise, so it always goes through the "vat introduces its own promise"
// path.
func mapOutboundSlot(vd *vatData, ot *ObjectTable, pt *PromiseTable, slot VatCapSlot) (CapSlot, error) {
	switch slot.Kind {
	case SlotObject:
		id, err := mapOutboundObject(vd, ot, slot.Object)
		if err != nil {
			return CapSlot{}, err
		}
		return NewObjectSlot(id), nil
	case SlotPromise:
		id, err := mapOutboundPromise(vd, pt, slot.Promise)
		if err != nil {
			return CapSlot{}, err
		}
		return NewPromiseSlot(id), nil
	default:
		return CapSlot{}, &FatalError{Kind: ErrConfinementViolation, Detail: "bad vat slot kind"}
	}
}

// getOutboundSlot maps a vat-local CapSlot that the protocol requires to
// already exist (resolve/subscribe targets): it never allocates, and a
// miss is a confinement violation.
func getOutboundSlot(vd *vatData, slot VatCapSlot) (CapSlot, error) {
	switch slot.Kind {
	case SlotObject:
		id, ok := vd.objectCList.getOutbound(slot.Object)
		if !ok {
			return CapSlot{}, &FatalError{Kind: ErrConfinementViolation, Detail: "unknown outbound object " + slot.Object.String()}
		}
		return NewObjectSlot(id), nil
	case SlotPromise:
		id, err := getOutboundPromise(vd, slot.Promise)
		if err != nil {
			return CapSlot{}, err
		}
		return NewPromiseSlot(id), nil
	default:
		return CapSlot{}, &FatalError{Kind: ErrConfinementViolation, Detail: "bad vat slot kind"}
	}
}

// getOutboundPromise maps a vat-local promise id that must already be
// registered in vd's c-list. Resolve and subscribe require the reference
// to already exist, so a miss here is a confinement violation rather than
// an invitation to mint one.
func getOutboundPromise(vd *vatData, vid VatPromiseId) (PromiseId, error) {
	id, ok := vd.promiseCList.getOutbound(vid)
	if !ok {
		return 0, &FatalError{Kind: ErrConfinementViolation, Detail: "unknown outbound promise " + vid.String()}
	}
	return id, nil
}

// mapOutboundCapData recursively maps every slot carried by data.
func mapOutboundCapData(vd *vatData, ot *ObjectTable, pt *PromiseTable, data VatCapData) (CapData, error) {
	slots := make([]CapSlot, len(data.Slots))
	for i, s := range data.Slots {
		mapped, err := mapOutboundSlot(vd, ot, pt, s)
		if err != nil {
			return CapData{}, err
		}
		slots[i] = mapped
	}
	return CapData{Body: data.Body, Slots: slots}, nil
}

// mapOutboundSend maps an outgoing send's arguments and, if present, its
// result promise -- whose decider is recipient, the send's target vat --
// into a kernel Message ready to enqueue.
func mapOutboundSend(vd *vatData, ot *ObjectTable, pt *PromiseTable, recipient VatId, msg VatMessage) (Message, error) {
	args, err := mapOutboundCapData(vd, ot, pt, msg.Args)
	if err != nil {
		return Message{}, err
	}
	out := Message{Method: msg.Method, Args: args}
	if msg.Result != nil {
		rid, err := mapOutboundResultPromise(vd, pt, recipient, *msg.Result)
		if err != nil {
			return Message{}, err
		}
		out.Result = &rid
	}
	return out, nil
}

// mapOutboundResolution maps a vat's resolve call into a kernel
// Resolution. The reference case can allocate (the vat may be resolving a
// promise onto a brand-new export); the data/rejection cases recurse
// through mapOutboundCapData, which can likewise allocate for any slots
// they carry.
func mapOutboundResolution(vd *vatData, ot *ObjectTable, pt *PromiseTable, res VatResolution) (Resolution, error) {
	switch res.Kind {
	case ResolutionReference:
		slot, err := mapOutboundSlot(vd, ot, pt, res.Reference)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Kind: ResolutionReference, Reference: slot}, nil
	case ResolutionData:
		data, err := mapOutboundCapData(vd, ot, pt, res.Data)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Kind: ResolutionData, Data: data}, nil
	case ResolutionRejection:
		data, err := mapOutboundCapData(vd, ot, pt, res.Data)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Kind: ResolutionRejection, Data: data}, nil
	default:
		return Resolution{}, &FatalError{Kind: ErrConfinementViolation, Detail: "bad resolution kind"}
	}
}
