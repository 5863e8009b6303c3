// ABOUTME: Worker handle pairing a cooperative stop flag with a cancel signal
// ABOUTME: Stop is requested, then delivered; no join is ever exposed
package pipeline

import (
	"context"
	"sync/atomic"
)

// worker is the coordinator's view of one running goroutine. requestStop
// marks the shutdown as deliberate; interrupt unblocks whatever the worker
// is waiting on. The coordinator never waits for the goroutine to finish.
type worker struct {
	name   string
	stop   atomic.Bool
	cancel context.CancelFunc
}

func (w *worker) requestStop() {
	w.stop.Store(true)
}

func (w *worker) interrupt() {
	w.cancel()
}

// stopping reports whether shutdown was requested, so an error produced by
// tearing down a blocking call is not mistaken for a stream failure.
func (w *worker) stopping() bool {
	return w.stop.Load()
}
