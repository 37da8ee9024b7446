package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTargetObjectRoutesToOwner(t *testing.T) {
	ot := NewObjectTable()
	pt := NewPromiseTable()
	id := ot.Allocate(VatId(7))

	c := classifyTarget(ot, pt, NewObjectSlot(id))
	assert.Equal(t, classifySend, c.kind)
	assert.Equal(t, VatId(7), c.recipient)
}

func TestClassifyTargetUnresolvedPromiseRoutesToDecider(t *testing.T) {
	ot := NewObjectTable()
	pt := NewPromiseTable()
	id := pt.AllocateUnresolved(VatId(3), VatId(0))

	c := classifyTarget(ot, pt, NewPromiseSlot(id))
	assert.Equal(t, classifySend, c.kind)
	assert.Equal(t, VatId(3), c.recipient)
}

func TestClassifyTargetFulfilledPromiseForwardsToNewOwner(t *testing.T) {
	ot := NewObjectTable()
	pt := NewPromiseTable()
	target := ot.Allocate(VatId(5))
	id := pt.AllocateUnresolved(VatId(0), VatId(0))
	_, err := pt.Resolve(id, Resolution{Kind: ResolutionReference, Reference: NewObjectSlot(target)})
	require.NoError(t, err)

	c := classifyTarget(ot, pt, NewPromiseSlot(id))
	assert.Equal(t, classifySend, c.kind)
	assert.Equal(t, VatId(5), c.recipient)
}

func TestClassifyTargetFulfilledToDataIsDeadLetter(t *testing.T) {
	ot := NewObjectTable()
	pt := NewPromiseTable()
	id := pt.AllocateUnresolved(VatId(0), VatId(0))
	_, err := pt.Resolve(id, Resolution{Kind: ResolutionData, Data: CapData{Body: []byte("42")}})
	require.NoError(t, err)

	c := classifyTarget(ot, pt, NewPromiseSlot(id))
	assert.Equal(t, classifyError, c.kind)
	assert.Contains(t, string(c.errData.Body), "cannot send message to data")
	assert.Contains(t, string(c.errData.Body), "42")
}

func TestClassifyTargetRejectedIsDeadLetterWithOriginalReason(t *testing.T) {
	ot := NewObjectTable()
	pt := NewPromiseTable()
	id := pt.AllocateUnresolved(VatId(0), VatId(0))
	_, err := pt.Resolve(id, Resolution{Kind: ResolutionRejection, Data: CapData{Body: []byte("oops")}})
	require.NoError(t, err)

	c := classifyTarget(ot, pt, NewPromiseSlot(id))
	assert.Equal(t, classifyError, c.kind)
	assert.Equal(t, []byte("oops"), c.errData.Body)
}
