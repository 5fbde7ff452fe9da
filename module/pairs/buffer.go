package pairs

import (
	"context"
	"fmt"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/common/fifoqueue"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/util"
)

// Message is a plaintext pair together with its ciphertext pair.
type Message struct {
	Plaintext  dca.Pair
	Ciphertext dca.Pair
}

// Buffer hands messages from the pair source to a single consumer that blocks until
// a requested message arrives.
type Buffer struct {
	queue    *fifoqueue.FifoQueue[Message]
	notifier module.Notifier
}

func NewBuffer() *Buffer {
	// an unbounded queue cannot fail option validation
	queue, _ := fifoqueue.NewFifoQueue[Message]()
	return &Buffer{
		queue:    queue,
		notifier: module.NewNotifier(),
	}
}

// Add enqueues a message and wakes up the consumer. It never blocks.
func (b *Buffer) Add(m Message) {
	b.queue.Push(m)
	b.notifier.Notify()
}

// Len returns the number of buffered messages.
func (b *Buffer) Len() int {
	return b.queue.Len()
}

// Next returns the oldest buffered message. If the buffer is empty, request is
// called exactly once and Next blocks until a message arrives or ctx is cancelled.
// Expected errors during normal operations:
//   - context.Canceled if ctx was cancelled while waiting
func (b *Buffer) Next(ctx context.Context, request func()) (Message, error) {
	requested := false
	for {
		if m, ok := b.queue.Pop(); ok {
			return m, nil
		}
		if !requested {
			request()
			requested = true
		}
		err := util.WaitSignal(ctx, b.notifier.Channel())
		if err != nil {
			return Message{}, fmt.Errorf("stopped waiting for a pair: %w", err)
		}
	}
}
