package lens

// FrameHandle identifies a pending frame callback.
type FrameHandle uint64

// Scheduler runs callbacks once per display refresh.
type Scheduler interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

type queuedFrame struct {
	handle FrameHandle
	fn     func()
}

// FrameQueue is a Scheduler driven by the host render loop: every call to
// Flush runs the callbacks that were requested before it started. Callbacks
// requested during a flush run on the next one.
type FrameQueue struct {
	next    FrameHandle
	pending []queuedFrame
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame implements Scheduler.
func (q *FrameQueue) RequestFrame(fn func()) FrameHandle {
	q.next++
	q.pending = append(q.pending, queuedFrame{handle: q.next, fn: fn})
	return q.next
}

// CancelFrame implements Scheduler. Unknown or already-run handles are ignored.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	for i, f := range q.pending {
		if f.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Flush runs every callback queued before the call and returns how many ran.
func (q *FrameQueue) Flush() int {
	batch := q.pending
	q.pending = nil
	for _, f := range batch {
		f.fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}
