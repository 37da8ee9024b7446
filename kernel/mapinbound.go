package kernel

// This file translates kernel-domain values into vat-domain values for
// delivery into a specific recipient vat (§4.4). It may allocate in the
// recipient's c-lists, but never in the kernel's object/promise tables --
// those only grow on the outbound side, where a vat actually introduces
// something new.

// mapInboundPromise maps a kernel PromiseId into vd's vat-local id.
//
// If vd's vat is the promise's allocator, the promise is "returning home":
// it must already be in vd's c-list (the vat minted it itself, outbound,
// at some earlier point), so we just look it up. Otherwise this is the
// first time vd has seen it and the c-list allocates a fresh negative id.
func mapInboundPromise(vd *vatData, pt *PromiseTable, id PromiseId) VatPromiseId {
	if pt.AllocatorOf(id) == vd.id {
		v, ok := vd.promiseCList.getInbound(id)
		if !ok {
			panic(&FatalError{Kind: ErrConfinementViolation, Detail: "promise returning home was never exported"})
		}
		return v
	}
	return vd.promiseCList.mapInbound(id)
}

// mapInboundSlot maps a kernel CapSlot into vd's vat-local mirror.
func mapInboundSlot(vd *vatData, ot *ObjectTable, pt *PromiseTable, slot CapSlot) VatCapSlot {
	switch slot.Kind {
	case SlotObject:
		if ot.OwnerOf(slot.Object) == vd.id {
			v, ok := vd.objectCList.getInbound(slot.Object)
			if !ok {
				panic(&FatalError{Kind: ErrConfinementViolation, Detail: "object returning home was never exported"})
			}
			return NewVatObjectSlot(v)
		}
		return NewVatObjectSlot(vd.objectCList.mapInbound(slot.Object))
	case SlotPromise:
		return NewVatPromiseSlot(mapInboundPromise(vd, pt, slot.Promise))
	default:
		panic("mapInboundSlot: bad slot kind")
	}
}

// mapInboundTarget maps a kernel CapSlot that is acting as a delivery
// target into the InboundTarget shape Dispatch.Deliver expects.
func mapInboundTarget(vd *vatData, ot *ObjectTable, pt *PromiseTable, target CapSlot) InboundTarget {
	switch s := mapInboundSlot(vd, ot, pt, target); s.Kind {
	case SlotObject:
		return InboundTarget{Kind: InboundObject, Object: s.Object}
	case SlotPromise:
		return InboundTarget{Kind: InboundPromise, Promise: s.Promise}
	default:
		panic("mapInboundTarget: bad slot kind")
	}
}

// mapInboundCapData recursively maps every slot carried by data.
func mapInboundCapData(vd *vatData, ot *ObjectTable, pt *PromiseTable, data CapData) VatCapData {
	slots := make([]VatCapSlot, len(data.Slots))
	for i, s := range data.Slots {
		slots[i] = mapInboundSlot(vd, ot, pt, s)
	}
	return VatCapData{Body: data.Body, Slots: slots}
}

// mapInboundMessage maps every part of a kernel Message for delivery into
// vd's vat: its argument slots, and its optional result promise (which the
// kernel has already recorded vd as the decider of, before dispatch).
func mapInboundMessage(vd *vatData, ot *ObjectTable, pt *PromiseTable, msg Message) VatMessage {
	out := VatMessage{
		Method: msg.Method,
		Args:   mapInboundCapData(vd, ot, pt, msg.Args),
	}
	if msg.Result != nil {
		r := mapInboundPromise(vd, pt, *msg.Result)
		out.Result = &r
	}
	return out
}

// mapInboundResolution maps a kernel Resolution for delivery to vd's vat.
func mapInboundResolution(vd *vatData, ot *ObjectTable, pt *PromiseTable, res Resolution) VatResolution {
	switch res.Kind {
	case ResolutionReference:
		return VatResolution{Kind: ResolutionReference, Reference: mapInboundSlot(vd, ot, pt, res.Reference)}
	case ResolutionData:
		return VatResolution{Kind: ResolutionData, Data: mapInboundCapData(vd, ot, pt, res.Data)}
	case ResolutionRejection:
		return VatResolution{Kind: ResolutionRejection, Data: mapInboundCapData(vd, ot, pt, res.Data)}
	default:
		panic("mapInboundResolution: bad resolution kind")
	}
}
