package corochan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFirstRendezvousWins(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	a := NewChannel[string](Synchronous)
	b := NewChannel[string](Synchronous)

	go func() { _ = a.SendSync(ctx, "from-a") }()

	var winner string
	sel := NewSelect[string]().
		On(a, func(v string) { winner = "a:" + v }).
		On(b, func(v string) { winner = "b:" + v })

	require.NoError(t, sel.Run(ctx))
	assert.Equal(t, "from-a", winner[2:])
	assert.Equal(t, byte('a'), winner[0])
}

func TestSelectWithNoCasesIsProtocolMisuse(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sel := NewSelect[int]()
	err := sel.Run(ctx)
	require.Error(t, err)
}

func TestSelectDuplicateChannelPanics(t *testing.T) {
	ch := NewChannel[int](Synchronous)
	sel := NewSelect[int]().On(ch, func(int) {})
	assert.Panics(t, func() {
		sel.On(ch, func(int) {})
	})
}

func TestSelectRunRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ch := NewChannel[int](Synchronous) // no sender ever arrives
	sel := NewSelect[int]().On(ch, func(int) {})

	err := sel.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSelectFairnessAcrossManyRounds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	a := NewChannel[int](Synchronous)
	b := NewChannel[int](Synchronous)

	go func() {
		for i := 0; i < 50; i++ {
			_ = a.SendSync(ctx, i)
		}
	}()
	go func() {
		for i := 0; i < 50; i++ {
			_ = b.SendSync(ctx, i)
		}
	}()

	counts := map[string]int{}
	for i := 0; i < 100; i++ {
		sel := NewSelect[int]().
			On(a, func(int) { counts["a"]++ }).
			On(b, func(int) { counts["b"]++ })
		require.NoError(t, sel.Run(ctx))
	}

	assert.Equal(t, 100, counts["a"]+counts["b"])
	// Weak fairness only: both sides should have made at least some
	// progress over 100 rounds, not that either got exactly half.
	assert.Greater(t, counts["a"], 0)
	assert.Greater(t, counts["b"], 0)
}
