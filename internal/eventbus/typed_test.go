package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/seaplane/core/planning"
)

func TestTypedBusFanOut(t *testing.T) {
	bus := NewTyped[planning.Event]()
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Publish(planning.Event{Kind: planning.EventSelectionChanged, Vehicle: "Skyhawk"})

	ea := <-a
	eb := <-b
	assert.Equal(t, "Skyhawk", ea.Vehicle)
	assert.Equal(t, planning.EventSelectionChanged, eb.Kind)
	bus.Unsubscribe(a)
	bus.Unsubscribe(b)
}

func TestTypedBusSatisfiesPublisher(t *testing.T) {
	var _ planning.Publisher = NewTyped[planning.Event]()
}

func TestTypedBusDropsWhenFull(t *testing.T) {
	bus := NewTypedBuffered[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	bus.Publish(3)
	require.Equal(t, 1, <-ch)
	assert.Equal(t, uint64(2), bus.Dropped())
}

func TestTypedBusSubscribeBuffered(t *testing.T) {
	bus := NewTypedBuffered[int](1)
	small := bus.Subscribe()
	large := bus.SubscribeBuffered(DurableBuffer)
	for i := 0; i < 100; i++ {
		bus.Publish(i)
	}
	assert.Len(t, small, 1)
	assert.Len(t, large, 100)
	assert.Equal(t, uint64(99), bus.Dropped())
	for i := 0; i < 100; i++ {
		require.Equal(t, i, <-large)
	}
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	_, ok := <-ch1
	assert.False(t, ok)
	_, ok = <-ch2
	assert.False(t, ok)

	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")
	bus.Publish(1)
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	assert.NotPanics(t, func() { bus.Unsubscribe(ch) })
}
