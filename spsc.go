// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Bounded SPSC channel: a ring buffer of size' =
// next_power_of_two(requested + maxPendingSlots) slots, with one packed
// 32-bit control word per channel shared by producer and consumer.
//
// The low two bits of the control word are flags; available_count occupies
// the remaining bits starting at spscAvailableShift. Batched release
// amortizes the atomic RMW cost of the consumer catching up with the
// producer: the consumer accumulates up to maxPendingSlots locally-consumed
// items before publishing the release as a single subtract.
const (
	spscReceiverSleeping   = uint32(1) << 0
	spscTransmitterDropped = uint32(1) << 1
	spscAvailableShift     = 2
	maxPendingSlots        = 128
	spinIterations         = 8192
)

// spscCore is the cache-line-organized shared state of one SPSC channel.
type spscCore[T any] struct {
	_      pad
	word   atomix.Uint32 // flags(2) | available_count
	_      pad
	buffer []T
	mask   uint32
}

// SPSCSender is the producer half of an SPSC channel. Only one goroutine
// may hold and use a SPSCSender at a time.
type SPSCSender[T any] struct {
	core     *spscCore[T]
	writeIdx uint32
}

// SPSCReceiver is the consumer half of an SPSC channel. Only one goroutine
// may hold and use a SPSCReceiver at a time.
type SPSCReceiver[T any] struct {
	core            *spscCore[T]
	readIdx         uint32
	cachedRemaining int
	clearPending    int
	waiter          wakeWaiter
}

// NewSPSC creates a bounded SPSC channel. capacity rounds up internally:
// requested capacity plus headroom for batched release, then to the next
// power of two.
func NewSPSC[T any](capacity int) (*SPSCSender[T], *SPSCReceiver[T]) {
	if capacity < 1 {
		panic("qsdr: capacity must be >= 1")
	}
	size := roundToPow2(capacity + maxPendingSlots)
	core := &spscCore[T]{
		buffer: make([]T, size),
		mask:   uint32(size - 1),
	}
	return &SPSCSender[T]{core: core}, &SPSCReceiver[T]{core: core, waiter: newWakeWaiter(&core.word)}
}

// Send enqueues v. Send never blocks: the capacity discipline of a
// validated flowgraph (initial-message count bounded by circuit capacity,
// every produced item eventually returned) guarantees the channel is never
// observed full. Sending into a full channel is a wiring bug and panics.
func (s *SPSCSender[T]) Send(v T) {
	slot := s.writeIdx & s.core.mask
	s.core.buffer[slot] = v
	s.writeIdx++

	old := s.core.word.AddAcqRel(1 << spscAvailableShift)
	oldAvail := (old - (1 << spscAvailableShift)) >> spscAvailableShift
	if oldAvail == s.core.mask {
		panic("qsdr: send on full SPSC channel")
	}
	if old&spscReceiverSleeping != 0 {
		s.clearSleepingAndWake()
	}
}

func (s *SPSCSender[T]) clearSleepingAndWake() {
	for {
		cur := s.core.word.LoadRelaxed()
		if cur&spscReceiverSleeping == 0 {
			return
		}
		if s.core.word.CompareAndSwapAcqRel(cur, cur&^spscReceiverSleeping) {
			wake(&s.core.word)
			return
		}
	}
}

// Close marks the channel as producer-dropped. Once the buffer drains, the
// receiver's Recv/TryRecv report the channel closed rather than empty.
func (s *SPSCSender[T]) Close() {
	for {
		cur := s.core.word.LoadRelaxed()
		next := cur | spscTransmitterDropped
		if s.core.word.CompareAndSwapAcqRel(cur, next) {
			if cur&spscReceiverSleeping != 0 {
				wake(&s.core.word)
			}
			return
		}
	}
}

// TryRecv is the non-blocking consumption path used by the cooperative
// scheduler: it never parks the calling goroutine. When the channel is
// momentarily empty it returns PollPending instead of waiting.
func (r *SPSCReceiver[T]) TryRecv() (T, PollState) {
	if v, ok := r.fastRecv(); ok {
		return v, PollReady
	}
	return r.slowRecvNonBlocking()
}

// Recv blocks the calling goroutine until an item is available or the
// channel is closed. Intended for a dedicated consumer goroutine outside
// the cooperative scheduler.
func (r *SPSCReceiver[T]) Recv(ctx context.Context) (T, bool) {
	if v, ok := r.fastRecv(); ok {
		return v, true
	}
	return r.slowRecvBlocking(ctx)
}

func (r *SPSCReceiver[T]) fastRecv() (T, bool) {
	if r.cachedRemaining <= 0 {
		word := r.core.word.LoadAcquire()
		avail := int(word >> spscAvailableShift)
		r.cachedRemaining = avail - r.clearPending
		if r.cachedRemaining <= 0 {
			var zero T
			return zero, false
		}
	}
	slot := r.readIdx & r.core.mask
	v := r.core.buffer[slot]
	var zero T
	r.core.buffer[slot] = zero
	r.readIdx++
	r.cachedRemaining--
	r.clearPending++
	if r.clearPending == maxPendingSlots {
		r.core.word.AddAcqRel(^uint32(maxPendingSlots<<spscAvailableShift) + 1)
		r.clearPending = 0
	}
	return v, true
}

// slowRecvNonBlocking implements the spin-then-sleep path without ever
// parking the OS thread: "sleep" is a return of PollPending to the
// cooperative scheduler, which calls TryRecv again on its next round.
func (r *SPSCReceiver[T]) slowRecvNonBlocking() (T, PollState) {
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
	if r.core.word.LoadAcquire()&spscTransmitterDropped != 0 {
		var zero T
		return zero, PollClosed
	}
	var zero T
	return zero, PollPending
}

func (r *SPSCReceiver[T]) slowRecvBlocking(ctx context.Context) (T, bool) {
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
		expected := r.core.word.LoadAcquire()
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

func (r *SPSCReceiver[T]) setSleeping() {
	for {
		cur := r.core.word.LoadRelaxed()
		if cur&spscReceiverSleeping != 0 {
			return
		}
		if r.core.word.CompareAndSwapAcqRel(cur, cur|spscReceiverSleeping) {
			return
		}
	}
}

func (r *SPSCReceiver[T]) clearSleeping() {
	for {
		cur := r.core.word.LoadRelaxed()
		if cur&spscReceiverSleeping == 0 {
			return
		}
		if r.core.word.CompareAndSwapAcqRel(cur, cur&^spscReceiverSleeping) {
			return
		}
	}
}

// Close marks the receiver as dropped. Provided for symmetry with Sender;
// the circuit-as-tree invariant means a validated flowgraph never sends to
// an abandoned receiver, so Close is a no-op hint here.
func (r *SPSCReceiver[T]) Close() {}
