package kernel

// classificationKind says where a message addressed to a given target
// should actually go, or that it cannot be delivered at all (§4.6).
type classificationKind uint8

const (
	classifySend classificationKind = iota
	classifyError
)

type classification struct {
	kind classificationKind

	// classifySend fields.
	recipient VatId

	// classifyError fields: the message is undeliverable and any result
	// promise must instead be rejected with errData.
	errData CapData
}

// classifyTarget implements §4.6: an Object slot always routes to its
// owner; a Promise slot routes according to its current state -- to its
// decider while unresolved (this is what makes pipelining possible), to
// the new owner once fulfilled to a target (transparent forwarding), or
// to a dead-letter error once fulfilled to data or rejected.
func classifyTarget(ot *ObjectTable, pt *PromiseTable, target CapSlot) classification {
	switch target.Kind {
	case SlotObject:
		return classification{kind: classifySend, recipient: ot.OwnerOf(target.Object)}
	case SlotPromise:
		if decider, ok := pt.DeciderOf(target.Promise); ok {
			return classification{kind: classifySend, recipient: decider}
		}
		res := pt.CurrentResolution(target.Promise)
		switch res.Kind {
		case ResolutionReference:
			return classification{kind: classifySend, recipient: ot.OwnerOf(res.Reference.Object)}
		case ResolutionData:
			return classification{kind: classifyError, errData: CapData{
				Body: []byte("cannot send message to data (" + string(res.Data.Body) + ")"),
			}}
		case ResolutionRejection:
			return classification{kind: classifyError, errData: res.Data}
		default:
			panic("classifyTarget: bad resolution kind")
		}
	default:
		panic("classifyTarget: bad slot kind")
	}
}
