package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_SuccessToasts(t *testing.T) {
	n := &mockNotifier{}
	toasts := &mockToaster{}
	d := NewDispatcher(n, toasts, time.Second, nil)

	d.NotifyOrder(sampleOrder())
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, n.messages(), 1)
	assert.Equal(t, []toast{{"Email sent to ali@example.com", false}}, toasts.all())
}

func TestDispatcher_FailureToasts(t *testing.T) {
	n := &mockNotifier{err: errors.New("relay down")}
	toasts := &mockToaster{}
	d := NewDispatcher(n, toasts, time.Second, nil)

	d.NotifyOrder(sampleOrder())
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, []toast{{"Failed to send email", true}}, toasts.all())
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	block := make(chan struct{})
	n := &mockNotifier{block: block}
	d := NewDispatcher(n, nil, time.Minute, nil)

	start := time.Now()
	d.NotifyOrder(sampleOrder())
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(block)
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, n.messages(), 1)
}

func TestDispatcher_TimeoutIsFailure(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	n := &mockNotifier{block: block}
	toasts := &mockToaster{}
	d := NewDispatcher(n, toasts, 20*time.Millisecond, nil)

	d.NotifyOrder(sampleOrder())
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, []toast{{"Failed to send email", true}}, toasts.all())
}

func TestDispatcher_CloseRespectsDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	d := NewDispatcher(&mockNotifier{block: block}, nil, time.Minute, nil)

	d.NotifyOrder(sampleOrder())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	n := &mockNotifier{}
	d := NewDispatcher(n, nil, time.Second, nil)
	require.NoError(t, d.Close(context.Background()))

	d.NotifyOrder(sampleOrder())
	require.NoError(t, d.Close(context.Background()))
	assert.Empty(t, n.messages())
}
