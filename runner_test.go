package corochan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronousRunnerRunsInline(t *testing.T) {
	var ran bool
	Synchronous.Run(func() { ran = true })
	assert.True(t, ran)
}

func TestExecutorRunnerDispatchesOffCaller(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	runner := NewFixedExecutorRunner(ctx, 2)

	var wg sync.WaitGroup
	const n = 20
	wg.Add(n)
	var mu sync.Mutex
	seen := map[int]bool{}
	for i := 0; i < n; i++ {
		i := i
		runner.Run(func() {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("executor runner did not run all tasks in time")
	}

	require.Len(t, seen, n)
}

func TestExecutorRunnerBacksChannelRendezvous(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	runner := NewFixedExecutorRunner(ctx, 4)
	ch := NewChannel[int](runner)

	go func() { _ = ch.SendSync(ctx, 99) }()

	v, err := ch.ReceiveSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}
