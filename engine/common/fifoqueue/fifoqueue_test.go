package fifoqueue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/common/fifoqueue"
)

func TestFifoQueue_Order(t *testing.T) {
	var lengths []int
	queue, err := fifoqueue.NewFifoQueue[int](
		fifoqueue.WithCapacity[int](2),
		fifoqueue.WithLengthObserver[int](func(l int) { lengths = append(lengths, l) }),
	)
	require.NoError(t, err)

	assert.True(t, queue.Push(1))
	assert.True(t, queue.Push(2))
	assert.False(t, queue.Push(3))

	head, ok := queue.Front()
	require.True(t, ok)
	assert.Equal(t, 1, head)

	v, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = queue.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = queue.Pop()
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 1, 0}, lengths)
}

func TestFifoQueue_InvalidOptions(t *testing.T) {
	_, err := fifoqueue.NewFifoQueue[int](fifoqueue.WithCapacity[int](0))
	assert.Error(t, err)
	_, err = fifoqueue.NewFifoQueue[int](fifoqueue.WithLengthObserver[int](nil))
	assert.Error(t, err)
}

func TestFifoQueue_Clear(t *testing.T) {
	queue, err := fifoqueue.NewFifoQueue[string]()
	require.NoError(t, err)
	queue.Push("a")
	queue.Push("b")
	queue.Clear()
	assert.Zero(t, queue.Len())
}
