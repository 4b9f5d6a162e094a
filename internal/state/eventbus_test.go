package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	t.Log("test eventbus begin")

	testLen := 1000
	exist := make(chan struct{}, testLen)
	wg := sync.WaitGroup{}
	count := atomic.Uint64{}
	for i := 0; i < testLen; i++ {
		// buffered so publish reaches subscribers not yet blocked in receive
		filledCh := make(chan interface{}, 1)
		bus.Subscribe(QueueFilled, filledCh)
		wg.Add(1)
		i := i
		go func() {
			exist <- struct{}{}
			result := <-filledCh
			t.Logf("subtest:index = %d, result = %v", i, result)
			count.Add(1)

			wg.Done()
		}()
	}
	for i := 0; i < testLen; i++ {
		<-exist
	}
	bus.Publish(QueueFilled, "OK")
	t.Log("eventbus publish end")
	wg.Wait()
	assert.Equal(t, count.Load(), uint64(len(bus.subscribers[QueueFilled.String()])))
	t.Log("test eventbus end")
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	ch := make(chan interface{}, 1)
	bus.Subscribe(QueueJoined, ch)
	bus.Unsubscribe(QueueJoined, ch)

	bus.Publish(QueueJoined, "dropped")
	select {
	case data := <-ch:
		t.Fatalf("unexpected delivery after unsubscribe: %v", data)
	default:
	}
}
