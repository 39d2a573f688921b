package corochan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRendezvousSenderFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewChannel[string](Synchronous)

	sendErrCh := make(chan error, 1)
	go func() { sendErrCh <- ch.SendSync(ctx, "hello") }()

	time.Sleep(5 * time.Millisecond) // let the sender park first

	v, err := ch.ReceiveSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	require.NoError(t, <-sendErrCh)
}

func TestChannelRendezvousReceiverFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewChannel[int](Synchronous)

	recvCh := make(chan int, 1)
	recvErrCh := make(chan error, 1)
	go func() {
		v, err := ch.ReceiveSync(ctx)
		recvCh <- v
		recvErrCh <- err
	}()

	time.Sleep(5 * time.Millisecond) // let the receiver park first

	require.NoError(t, ch.SendSync(ctx, 42))
	assert.Equal(t, 42, <-recvCh)
	require.NoError(t, <-recvErrCh)
}

func TestChannelSecondSenderRejected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewChannel[int](Synchronous)

	firstDone := make(chan struct{})
	ch.Send(1, func(error) { close(firstDone) })

	err := ch.SendSync(ctx, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocolMisuse))

	// the first sender is still parked; let a receiver drain it so its
	// completion callback runs and closes firstDone.
	v, rerr := ch.ReceiveSync(ctx)
	require.NoError(t, rerr)
	assert.Equal(t, 1, v)
	<-firstDone
}

func TestChannelSecondReceiverRejected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewChannel[int](Synchronous)

	firstDone := make(chan struct{})
	ch.Receive(func(int, error) { close(firstDone) })

	_, err := ch.ReceiveSync(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocolMisuse))

	require.NoError(t, ch.SendSync(ctx, 7))
	<-firstDone
}

func TestChannelRegisterSenderWithParkedReceiver(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewChannel[string](Synchronous)

	recvCh := make(chan string, 1)
	go func() {
		v, _ := ch.ReceiveSync(ctx)
		recvCh <- v
	}()
	time.Sleep(5 * time.Millisecond)

	registered := make(chan error, 1)
	ch.RegisterSender(func(err error) { registered <- err })
	require.NoError(t, <-registered)

	require.NoError(t, ch.SendSync(ctx, "ready"))
	assert.Equal(t, "ready", <-recvCh)
}

func TestBufferedChannelAcceptsUpToCapacity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewBufferedChannel[int](Synchronous, 2)

	require.NoError(t, ch.SendSync(ctx, 1))
	require.NoError(t, ch.SendSync(ctx, 2))

	blockedDone := make(chan error, 1)
	go func() { blockedDone <- ch.SendSync(ctx, 3) }()

	time.Sleep(5 * time.Millisecond)
	select {
	case <-blockedDone:
		t.Fatal("third send should have blocked at capacity 2")
	default:
	}

	v, err := ch.ReceiveSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, <-blockedDone)

	v, err = ch.ReceiveSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = ch.ReceiveSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestBufferedChannelReceiverParksUntilSend(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := NewBufferedChannel[string](Synchronous, 1)

	recvCh := make(chan string, 1)
	go func() {
		v, _ := ch.ReceiveSync(ctx)
		recvCh <- v
	}()
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, ch.SendSync(ctx, "late"))
	assert.Equal(t, "late", <-recvCh)
}

func TestNewBufferedChannelPanicsOnNonPositiveSize(t *testing.T) {
	assert.Panics(t, func() { NewBufferedChannel[int](Synchronous, 0) })
}
