// ABOUTME: Bounded FIFO queue carrying raw packets between the two workers
// ABOUTME: Fixed capacity, blocking put/take, cancellable via context
package pipeline

import "context"

// queueSlots bounds end-to-end latency and memory: at most three packets are
// ever in flight between the network and the audio device.
const queueSlots = 3

// packetQueue is the only synchronization point between the network reader
// and the audio renderer. FIFO order is guaranteed by the underlying channel.
type packetQueue struct {
	ch chan []byte
}

func newPacketQueue() *packetQueue {
	return &packetQueue{ch: make(chan []byte, queueSlots)}
}

// put blocks while the queue is full, until ctx is cancelled.
func (q *packetQueue) put(ctx context.Context, pkt []byte) error {
	select {
	case q.ch <- pkt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// take blocks while the queue is empty, until ctx is cancelled.
func (q *packetQueue) take(ctx context.Context) ([]byte, error) {
	select {
	case pkt := <-q.ch:
		return pkt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
