package shutdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_Fire(t *testing.T) {
	c := New()
	assert.False(t, c.Fired())

	select {
	case <-c.Done():
		t.Fatal("done before fire")
	default:
	}

	c.Fire()
	c.Fire() // idempotent

	assert.True(t, c.Fired())
	select {
	case <-c.Done():
	default:
		t.Fatal("done not closed after fire")
	}
}

func TestCoordinator_FireWakesAllWaiters(t *testing.T) {
	c := New()

	const waiters = 50
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			<-c.Done()
		}()
	}

	// Concurrent Fire calls must not panic on a double close.
	for i := 0; i < 5; i++ {
		go c.Fire()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("waiters were not released")
	}
}

func TestCoordinator_Context(t *testing.T) {
	t.Run("canceled on fire", func(t *testing.T) {
		c := New()
		ctx, cancel := c.Context(context.Background())
		defer cancel()

		c.Fire()

		select {
		case <-ctx.Done():
			require.ErrorIs(t, ctx.Err(), context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("context not canceled on fire")
		}
	})

	t.Run("follows parent", func(t *testing.T) {
		c := New()
		parent, parentCancel := context.WithCancel(context.Background())
		ctx, cancel := c.Context(parent)
		defer cancel()

		parentCancel()

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context not canceled with parent")
		}
		assert.False(t, c.Fired())
	})
}
