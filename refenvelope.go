// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "context"

// RefEnvelope is a transient, non-owning view over an item received from a
// [PortRefIn]. The item must be released back to its source exactly once;
// Release does this. A RefEnvelope that is never released leaks its item —
// the owning circuit's buffer pool permanently shrinks by one.
type RefEnvelope[T any] struct {
	value    T
	release  func(T)
	released bool
}

// Get returns a pointer to the borrowed value. Valid until Release.
func (e *RefEnvelope[T]) Get() *T { return &e.value }

// Release returns the item along its channel's return path. Calling
// Release more than once is a no-op.
func (e *RefEnvelope[T]) Release() {
	if e.released {
		return
	}
	e.released = true
	if e.release != nil {
		e.release(e.value)
	}
}

// refForwarder turns a plain owned-item [Receiver] into a [RefReceiver]: the
// item comes out wrapped in a [RefEnvelope] whose Release sends it back
// along ret, the channel wired to the circuit's PortSource. This backs
// PortRefIn for ordinary SPSC/MPSC reference receivers;
// [SPBroadcastReceiver] implements the refcounted variant directly instead
// of through this wrapper.
type refForwarder[T any] struct {
	forward Receiver[T]
	ret     Sender[T]
}

// NewRefReceiver adapts forward into a RefReceiver that returns each
// received item to ret once its envelope is released.
func NewRefReceiver[T any](forward Receiver[T], ret Sender[T]) RefReceiver[T] {
	return &refForwarder[T]{forward: forward, ret: ret}
}

func (r *refForwarder[T]) wrap(v T) RefEnvelope[T] {
	return RefEnvelope[T]{value: v, release: func(v T) { r.ret.Send(v) }}
}

func (r *refForwarder[T]) TryRecvRef() (RefEnvelope[T], PollState) {
	v, state := r.forward.TryRecv()
	if state != PollReady {
		return RefEnvelope[T]{}, state
	}
	return r.wrap(v), PollReady
}

func (r *refForwarder[T]) RecvRef(ctx context.Context) (RefEnvelope[T], bool) {
	v, ok := r.forward.Recv(ctx)
	if !ok {
		return RefEnvelope[T]{}, false
	}
	return r.wrap(v), true
}

// Close drops this port's return producer, letting the channel on the
// other end of ret (the circuit's PortSource) observe closure once
// drained. Closing forward would be a no-op: forward is a Receiver, and
// Receiver.Close exists only for symmetry. ret is the sender that actually
// needs dropping to cascade termination back toward the source block.
func (r *refForwarder[T]) Close() { r.ret.Close() }
