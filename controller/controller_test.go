package controller

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/vatkernel/vatkernel/kernel"
)

type recordingDispatch struct {
	delivered []string
}

func (d *recordingDispatch) Deliver(s kernel.Syscall, target kernel.InboundTarget, msg kernel.VatMessage) {
	d.delivered = append(d.delivered, msg.Method)
}

func (d *recordingDispatch) NotifyResolved(s kernel.Syscall, promise kernel.VatPromiseId, resolution kernel.VatResolution) {
}

func TestControllerRunDrainsQueue(t *testing.T) {
	k := kernel.New()
	d := &recordingDispatch{}
	id := k.AddVat("solo", d)
	vd := k.RootOf(id)

	k.PushDeliver(vd, "a", nil, nil)
	k.PushDeliver(vd, "b", nil, nil)

	c := New(k, logr.Discard())
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, []string{"a", "b"}, d.delivered)
	assert.Equal(t, 0, k.QueueLen())
}

func TestControllerRunNStopsAtLimit(t *testing.T) {
	k := kernel.New()
	d := &recordingDispatch{}
	id := k.AddVat("solo", d)
	vd := k.RootOf(id)

	for i := 0; i < 5; i++ {
		k.PushDeliver(vd, "m", nil, nil)
	}

	c := New(k, logr.Discard())
	n, err := c.RunN(3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, k.QueueLen())
}
