package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyWaitCapsAtMax(t *testing.T) {
	p := RetryPolicy{Base: 300 * time.Millisecond, Max: 3 * time.Second, Attempts: 10}
	assert.Equal(t, 300*time.Millisecond, p.Wait(0))
	assert.Equal(t, 600*time.Millisecond, p.Wait(1))
	assert.Equal(t, 3*time.Second, p.Wait(5))
}

func TestDoSucceedsOnFirstAttempt(t *testing.T) {
	p := RetryPolicy{Base: time.Millisecond, Max: 10 * time.Millisecond, Attempts: 3}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	p := RetryPolicy{Base: time.Millisecond, Max: 2 * time.Millisecond, Attempts: 3}
	calls := 0
	wantErr := errors.New("boom")
	err := p.Do(context.Background(), func() error {
		calls++
		return wantErr
	})
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsCancellation(t *testing.T) {
	p := RetryPolicy{Base: time.Second, Max: time.Second, Attempts: 3}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Do(ctx, func() error { return errors.New("fail") })
	assert.ErrorIs(t, err, context.Canceled)
}
