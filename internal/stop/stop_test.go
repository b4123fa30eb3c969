package stop

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOverProduction(t *testing.T) {
	p := New(0, 1000)

	var trues atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p.Next() {
				trues.Add(1)
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, trues.Load(), int64(1000))
	assert.Equal(t, int64(1000), trues.Load())
}

func TestWallTimeBound(t *testing.T) {
	p := New(0.05, 0)
	deadline := time.Now().Add(100 * time.Millisecond)

	for p.Next() {
		if time.Now().After(deadline) {
			t.Fatal("predicate kept returning true long past its bound")
		}
	}
}

func TestCounterAlwaysAdvances(t *testing.T) {
	p := New(0.001, 0)
	p.Start()
	time.Sleep(5 * time.Millisecond)

	ok := p.Next()
	assert.False(t, ok)
	assert.Equal(t, int64(1), p.Count())
}

func TestUnboundedWhenBothZero(t *testing.T) {
	p := New(0, 0)
	for i := 0; i < 10000; i++ {
		require.True(t, p.Next())
	}
}
