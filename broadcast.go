// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"

	"code.hybscloud.com/atomix"
)

// vacantRefcount marks a broadcast slot as unoccupied: no consumer holds a
// reference and the producer may overwrite it.
const vacantRefcount = ^uint64(0)

type spbroadcastSlot[T any] struct {
	value    T
	refcount atomix.Uint64
}

type spbroadcastPool[T any] struct {
	slots []spbroadcastSlot[T]
	mask  uint64
}

type broadcastMessage struct {
	slot uint64
}

// SPBroadcastSender is the single producer of a single-producer broadcast
// channel: each sent value is fanned out by reference to every consumer,
// and returned to ret (the shared MPSC return channel) only after the last
// consumer releases its [RefEnvelope].
type SPBroadcastSender[T any] struct {
	pool       *spbroadcastPool[T]
	writeIdx   uint64
	forwards   []*SPSCSender[broadcastMessage]
	nConsumers uint64
}

// SPBroadcastReceiver is one consumer of a single-producer broadcast
// channel.
type SPBroadcastReceiver[T any] struct {
	forward *SPSCReceiver[broadcastMessage]
	pool    *spbroadcastPool[T]
	ret     *MPSCSender[T]
}

// NewSPBroadcast creates a single-producer broadcast channel with
// nConsumers independent forward paths and one shared return channel. The
// caller drives the returned *MPSCReceiver[T] to recycle returned buffers
// back onto the producer's PortSource, and may use the returned seed sender
// to prime the return channel with the circuit's initial buffer pool
// before closing it.
func NewSPBroadcast[T any](capacity, nConsumers int) (*SPBroadcastSender[T], []*SPBroadcastReceiver[T], *MPSCReceiver[T], *MPSCSender[T]) {
	if nConsumers < 1 {
		panic("qsdr: broadcast channel needs at least one consumer")
	}
	size := roundToPow2(capacity)
	pool := &spbroadcastPool[T]{
		slots: make([]spbroadcastSlot[T], size),
		mask:  uint64(size - 1),
	}
	for i := range pool.slots {
		pool.slots[i].refcount.StoreRelaxed(vacantRefcount)
	}

	seedSender, retReceiver := NewMPSC[T](capacity)

	forwards := make([]*SPSCSender[broadcastMessage], nConsumers)
	receivers := make([]*SPBroadcastReceiver[T], nConsumers)
	for i := 0; i < nConsumers; i++ {
		fs, fr := NewSPSC[broadcastMessage](capacity)
		forwards[i] = fs
		receivers[i] = &SPBroadcastReceiver[T]{forward: fr, pool: pool, ret: seedSender.Clone()}
	}

	sender := &SPBroadcastSender[T]{pool: pool, forwards: forwards, nConsumers: uint64(nConsumers)}
	return sender, receivers, retReceiver, seedSender
}

// Send fans v out to every consumer by reference. Panics if the next slot
// in rotation is still occupied (a wiring or capacity bug: more values in
// flight than the pool can hold).
func (s *SPBroadcastSender[T]) Send(v T) {
	idx := s.writeIdx & s.pool.mask
	slot := &s.pool.slots[idx]

	if slot.refcount.LoadAcquire() != vacantRefcount {
		panic("qsdr: broadcast slot still occupied")
	}
	slot.value = v
	slot.refcount.StoreRelaxed(s.nConsumers)

	msg := broadcastMessage{slot: idx}
	for _, fs := range s.forwards {
		fs.Send(msg)
	}
	s.writeIdx++
}

// Close marks every forward channel producer-dropped.
func (s *SPBroadcastSender[T]) Close() {
	for _, fs := range s.forwards {
		fs.Close()
	}
}

func (r *SPBroadcastReceiver[T]) wrap(msg broadcastMessage) RefEnvelope[T] {
	slot := &r.pool.slots[msg.slot]
	v := slot.value
	return RefEnvelope[T]{value: v, release: func(v T) {
		if slot.refcount.AddAcqRel(^uint64(0)) == 0 {
			slot.refcount.StoreRelease(vacantRefcount)
			r.ret.Send(v)
		}
	}}
}

// TryRecvRef is the non-blocking consumption path used by the cooperative
// scheduler.
func (r *SPBroadcastReceiver[T]) TryRecvRef() (RefEnvelope[T], PollState) {
	msg, state := r.forward.TryRecv()
	if state != PollReady {
		return RefEnvelope[T]{}, state
	}
	return r.wrap(msg), PollReady
}

// RecvRef blocks until a value is available or the channel closes.
func (r *SPBroadcastReceiver[T]) RecvRef(ctx context.Context) (RefEnvelope[T], bool) {
	msg, ok := r.forward.Recv(ctx)
	if !ok {
		return RefEnvelope[T]{}, false
	}
	return r.wrap(msg), true
}

// Close drops this consumer's producer handle on the shared return
// channel. forward is an SPSCReceiver, whose Close is a documented no-op;
// ret is what actually needs dropping so the circuit's source observes the
// return channel closed once every consumer has done the same.
func (r *SPBroadcastReceiver[T]) Close() { r.ret.Close() }
