// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Bounded MPSC channel: an FAA-based ring buffer (Nikolaev-style slot
// claiming) of 2n physical slots, n being the requested capacity rounded up
// to a power of two; all 2n slots can hold items before a send finds the
// ring full. It is fronted by the same sleeping/dropped control protocol as
// the SPSC channel. Producers claim a slot with fetch-and-add on a shared
// index and validate it with a per-slot cycle counter; the single consumer
// advances head with a plain store, since it alone moves it, and reads each
// slot's cycle only to see whether the producer's write has landed.
type mpscCore[T any] struct {
	_             pad
	tail          atomix.Uint64 // FAA producer claim index
	_             pad
	head          atomix.Uint64 // consumer's committed read index
	_             pad
	flags         atomix.Uint32 // bit0 receiverSleeping, bit1 allProducersDropped
	_             pad
	liveProducers atomix.Int32
	_             pad
	buffer        []mpscSlot[T]
	capacity      uint64
	size          uint64
	mask          uint64
}

type mpscSlot[T any] struct {
	cycle atomix.Uint64
	data  T
	_     padShort
}

// MPSCSender is one producer handle of an MPSC channel. Multiple senders
// may be created via [MPSCSender.Clone] and used concurrently from
// different goroutines.
type MPSCSender[T any] struct {
	core *mpscCore[T]
}

// MPSCReceiver is the single-consumer half of an MPSC channel.
type MPSCReceiver[T any] struct {
	core   *mpscCore[T]
	waiter wakeWaiter
}

// NewMPSC creates a bounded MPSC channel with a single initial sender.
// Additional senders are obtained with [MPSCSender.Clone].
func NewMPSC[T any](capacity int) (*MPSCSender[T], *MPSCReceiver[T]) {
	if capacity < 2 {
		panic("qsdr: capacity must be >= 2")
	}
	n := uint64(roundToPow2(capacity))
	size := n * 2

	core := &mpscCore[T]{
		buffer:   make([]mpscSlot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
	}
	for i := uint64(0); i < size; i++ {
		core.buffer[i].cycle.StoreRelaxed(i / n)
	}
	core.liveProducers.StoreRelaxed(1)

	return &MPSCSender[T]{core: core}, &MPSCReceiver[T]{core: core, waiter: newWakeWaiter(&core.flags)}
}

// Clone returns an additional producer handle sharing the same channel.
// Used when a port fans multiple blocks' outputs into one circuit input,
// where the destination channel already exists and a new producer joins it.
func (s *MPSCSender[T]) Clone() *MPSCSender[T] {
	s.core.liveProducers.AddAcqRel(1)
	return &MPSCSender[T]{core: s.core}
}

// Send enqueues v. It never blocks: the capacity discipline of a validated
// flowgraph keeps the ring from filling, so a send that finds its claimed
// slot still occupied is a wiring bug and panics.
func (s *MPSCSender[T]) Send(v T) {
	sw := spin.Wait{}
	for {
		myTail := s.core.tail.AddAcqRel(1) - 1
		slot := &s.core.buffer[myTail&s.core.mask]
		expectedCycle := myTail / s.core.capacity

		slotCycle := slot.cycle.LoadAcquire()
		if slotCycle == expectedCycle {
			slot.data = v
			slot.cycle.StoreRelease(expectedCycle + 1)
			s.wakeIfSleeping()
			return
		}
		if int64(slotCycle) < int64(expectedCycle) {
			panic("qsdr: send on full MPSC channel")
		}
		sw.Once()
	}
}

func (s *MPSCSender[T]) wakeIfSleeping() {
	for {
		cur := s.core.flags.LoadRelaxed()
		if cur&spscReceiverSleeping == 0 {
			return
		}
		if s.core.flags.CompareAndSwapAcqRel(cur, cur&^spscReceiverSleeping) {
			wake(&s.core.flags)
			return
		}
	}
}

// Close drops this producer handle. Once every clone has closed, the
// receiver's Recv/TryRecv report the channel closed once drained.
func (s *MPSCSender[T]) Close() {
	if s.core.liveProducers.AddAcqRel(-1) != 0 {
		return
	}
	for {
		cur := s.core.flags.LoadRelaxed()
		next := cur | spscTransmitterDropped
		if s.core.flags.CompareAndSwapAcqRel(cur, next) {
			if cur&spscReceiverSleeping != 0 {
				wake(&s.core.flags)
			}
			return
		}
	}
}

func (r *MPSCReceiver[T]) fastRecv() (T, bool) {
	head := r.core.head.LoadRelaxed()
	cycle := head / r.core.capacity
	slot := &r.core.buffer[head&r.core.mask]

	if slot.cycle.LoadAcquire() != cycle+1 {
		var zero T
		return zero, false
	}

	v := slot.data
	var zero T
	slot.data = zero
	nextEnqCycle := (head + r.core.size) / r.core.capacity
	slot.cycle.StoreRelease(nextEnqCycle)
	r.core.head.StoreRelaxed(head + 1)
	return v, true
}

// TryRecv is the non-blocking consumption path used by the cooperative
// scheduler.
func (r *MPSCReceiver[T]) TryRecv() (T, PollState) {
	if v, ok := r.fastRecv(); ok {
		return v, PollReady
	}
	return r.slowRecvNonBlocking()
}

// Recv blocks until an item is available or the channel closes.
func (r *MPSCReceiver[T]) Recv(ctx context.Context) (T, bool) {
	if v, ok := r.fastRecv(); ok {
		return v, true
	}
	return r.slowRecvBlocking(ctx)
}

func (r *MPSCReceiver[T]) slowRecvNonBlocking() (T, PollState) {
	sw := spin.Wait{}
	for i := 0; i < spinIterations; i++ {
		if v, ok := r.fastRecv(); ok {
			return v, PollReady
		}
		sw.Once()
	}

	r.setSleeping()
	if v, ok := r.fastRecv(); ok {
		r.clearSleeping()
		return v, PollReady
	}
	if r.core.flags.LoadAcquire()&spscTransmitterDropped != 0 {
		var zero T
		return zero, PollClosed
	}
	var zero T
	return zero, PollPending
}

func (r *MPSCReceiver[T]) slowRecvBlocking(ctx context.Context) (T, bool) {
	sw := spin.Wait{}
	for i := 0; i < spinIterations; i++ {
		if v, ok := r.fastRecv(); ok {
			return v, true
		}
		sw.Once()
	}
	for {
		r.setSleeping()
		if v, ok := r.fastRecv(); ok {
			r.clearSleeping()
			return v, true
		}
		expected := r.core.flags.LoadAcquire()
		if expected&spscTransmitterDropped != 0 {
			var zero T
			return zero, false
		}
		if ctx != nil && ctx.Err() != nil {
			var zero T
			return zero, false
		}
		r.waiter.wait(ctx, expected)
	}
}

func (r *MPSCReceiver[T]) setSleeping() {
	for {
		cur := r.core.flags.LoadRelaxed()
		if cur&spscReceiverSleeping != 0 {
			return
		}
		if r.core.flags.CompareAndSwapAcqRel(cur, cur|spscReceiverSleeping) {
			return
		}
	}
}

func (r *MPSCReceiver[T]) clearSleeping() {
	for {
		cur := r.core.flags.LoadRelaxed()
		if cur&spscReceiverSleeping == 0 {
			return
		}
		if r.core.flags.CompareAndSwapAcqRel(cur, cur&^spscReceiverSleeping) {
			return
		}
	}
}

// Close marks the receiver dropped. Provided for symmetry; a validated
// flowgraph never sends to an abandoned receiver.
func (r *MPSCReceiver[T]) Close() {}
