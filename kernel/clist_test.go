package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestObjectCList() *clist[ObjectId, VatObjectId] {
	return newCList[ObjectId, VatObjectId](func(next int32) VatObjectId { return VatObjectId(next) })
}

func TestCListAddIsBijective(t *testing.T) {
	c := newTestObjectCList()
	require.NoError(t, c.add(ObjectId(7), VatObjectId(3)))

	k, ok := c.getOutbound(VatObjectId(3))
	assert.True(t, ok)
	assert.Equal(t, ObjectId(7), k)

	v, ok := c.getInbound(ObjectId(7))
	assert.True(t, ok)
	assert.Equal(t, VatObjectId(3), v)
}

func TestCListAddRejectsDuplicateEitherSide(t *testing.T) {
	c := newTestObjectCList()
	require.NoError(t, c.add(ObjectId(1), VatObjectId(1)))

	err := c.add(ObjectId(1), VatObjectId(2))
	require.Error(t, err)
	assert.Equal(t, ErrDuplicateRegistration, err.(*FatalError).Kind)

	err = c.add(ObjectId(2), VatObjectId(1))
	require.Error(t, err)
	assert.Equal(t, ErrDuplicateRegistration, err.(*FatalError).Kind)
}

func TestCListMapInboundAllocatesOnceAndIsStable(t *testing.T) {
	c := newTestObjectCList()
	v1 := c.mapInbound(ObjectId(9))
	v2 := c.mapInbound(ObjectId(9))
	assert.Equal(t, v1, v2)
	assert.True(t, v1 < 0, "kernel-introduced ids must mint negative vat-local ids")

	other := c.mapInbound(ObjectId(10))
	assert.NotEqual(t, v1, other)
}

func TestCListMapOutboundAllocatesOnlyWhenAllocatorProvided(t *testing.T) {
	c := newTestObjectCList()
	next := ObjectId(100)
	alloc := func() ObjectId { id := next; next++; return id }

	k1, err := c.mapOutbound(VatObjectId(5), alloc)
	require.NoError(t, err)
	k2, err := c.mapOutbound(VatObjectId(5), alloc)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "second mention of the same vat id must not re-allocate")

	_, err = c.mapOutbound(VatObjectId(6), nil)
	require.Error(t, err)
	assert.Equal(t, ErrConfinementViolation, err.(*FatalError).Kind)
}
