package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunQueueIsStrictlyFIFO(t *testing.T) {
	q := newRunQueue()
	for i := 0; i < 5; i++ {
		q.enqueue(newDeliver(NewObjectSlot(ObjectId(i)), Message{Method: "m"}))
	}
	for i := 0; i < 5; i++ {
		pd, ok := q.pop()
		assert.True(t, ok)
		assert.Equal(t, ObjectId(i), pd.Target.Object)
	}
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestRunQueueReclaimsBackingArrayOnceDrained(t *testing.T) {
	q := newRunQueue()
	q.enqueue(newDeliver(NewObjectSlot(ObjectId(1)), Message{Method: "m"}))
	_, _ = q.pop()
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.pending())
	assert.Equal(t, 0, q.head)
}
