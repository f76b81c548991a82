package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	ctx := context.Background()
	q := New()
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(ctx, &Task{Index: i, Seed: int64(i * 10)}))
	}
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, pending)
	assert.Equal(t, 0, running)

	for i := 0; i < 5; i++ {
		task, err := q.Pull(ctx)
		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Equal(t, i, task.Index)
		assert.Equal(t, int64(i*10), task.Seed)
	}
	task, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Nil(t, task)

	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 5, running)
}

func TestQueueDropAndComplete(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, &Task{Index: 0}))
	require.NoError(t, q.Push(ctx, &Task{Index: 1}))

	first, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Drop(ctx, first.ID()))
	require.NoError(t, q.Push(ctx, &Task{Index: 2}))

	var order []int
	for {
		task, err := q.Pull(ctx)
		require.NoError(t, err)
		if task == nil {
			break
		}
		order = append(order, task.Index)
		require.NoError(t, q.Complete(ctx, task.ID()))
	}
	assert.Equal(t, []int{1, 0, 2}, order)

	require.NoError(t, q.Drop(ctx, "0"))
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 0, running)
}

func TestQueueWrapsAround(t *testing.T) {
	ctx := context.Background()
	q := New()
	next := 0
	var pulled []int
	for round := 0; round < 4; round++ {
		for i := 0; i < 3; i++ {
			require.NoError(t, q.Push(ctx, &Task{Index: next}))
			next++
		}
		for i := 0; i < 2; i++ {
			task, err := q.Pull(ctx)
			require.NoError(t, err)
			pulled = append(pulled, task.Index)
		}
	}
	for {
		task, err := q.Pull(ctx)
		require.NoError(t, err)
		if task == nil {
			break
		}
		pulled = append(pulled, task.Index)
	}
	require.Len(t, pulled, next)
	for i, index := range pulled {
		assert.Equal(t, i, index)
	}
}
