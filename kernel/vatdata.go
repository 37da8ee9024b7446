package kernel

// vatData is everything the kernel keeps per registered vat: its identity
// and its two c-lists (one translating ObjectId<->VatObjectId, one
// translating PromiseId<->VatPromiseId). Keeping two separately-typed
// c-lists, rather than one generic-entry table, means an object id and a
// promise id can never be confused with each other at the type level.
type vatData struct {
	id           VatId
	name         string
	dispatch     Dispatch
	objectCList  *clist[ObjectId, VatObjectId]
	promiseCList *clist[PromiseId, VatPromiseId]
}

func newVatData(id VatId, name string, dispatch Dispatch) *vatData {
	return &vatData{
		id:           id,
		name:         name,
		dispatch:     dispatch,
		objectCList:  newCList[ObjectId, VatObjectId](func(next int32) VatObjectId { return VatObjectId(next) }),
		promiseCList: newCList[PromiseId, VatPromiseId](func(next int32) VatPromiseId { return VatPromiseId(next) }),
	}
}
