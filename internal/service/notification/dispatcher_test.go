package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDispatcher_RunsEveryQueuedJobBeforeClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(3, nil)
	d.Start()

	var ran atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, d.Submit(Job{Name: "count", Run: func(context.Context) error {
			ran.Add(1)
			return nil
		}}))
	}
	d.Close()

	assert.Equal(t, int64(100), ran.Load())
}

func TestDispatcher_IsolatesFailingJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(1, nil)
	d.Start()

	var ran atomic.Int64
	require.NoError(t, d.Submit(Job{Name: "panics", Run: func(context.Context) error { panic("boom") }}))
	require.NoError(t, d.Submit(Job{Name: "fails", Run: func(context.Context) error { return errors.New("db down") }}))
	require.NoError(t, d.Submit(Job{Name: "ok", Run: func(context.Context) error {
		ran.Add(1)
		return nil
	}}))
	d.Close()

	assert.Equal(t, int64(1), ran.Load())
}

func TestDispatcher_JobsGetADeadline(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(1, nil)
	d.Start()

	var hasDeadline atomic.Bool
	require.NoError(t, d.Submit(Job{Name: "deadline", Run: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hasDeadline.Store(ok)
		return nil
	}}))
	d.Close()

	assert.True(t, hasDeadline.Load())
}

func TestDispatcher_SubmitAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(2, nil)
	d.Start()
	d.Close()
	d.Close()

	err := d.Submit(Job{Name: "late", Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrDispatcherClosed)
}

func TestDispatcher_CloseWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(0, nil)
	require.NoError(t, d.Submit(Job{Name: "never", Run: func(context.Context) error { return nil }}))
	d.Close()
}
