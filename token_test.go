package corochan

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenReleaseIsOneShot(t *testing.T) {
	tok := NewToken()
	assert.True(t, tok.IsActive())

	assert.True(t, tok.Release())
	assert.False(t, tok.IsActive())
	assert.False(t, tok.Release())
}

func TestTokenReleaseElectsExactlyOneWinner(t *testing.T) {
	tok := NewToken()
	const racers = 50

	var wg sync.WaitGroup
	wins := make(chan int, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if tok.Release() {
				wins <- i
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count)
}
