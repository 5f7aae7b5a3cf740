// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "context"

// NodeID identifies a block within a [Flowgraph].
type NodeID int

// PortID identifies a port field within a block.
type PortID int

// PortOut is an output port: a sender of owned items. A block writes to its
// output port after producing a value.
type PortOut[T any] struct {
	sender Sender[T]
}

// Connected reports whether the port has been wired by [Connect] or
// [ConnectWithReturn].
func (p *PortOut[T]) Connected() bool { return p.sender != nil }

// Send forwards v downstream. Panics if the port is unconnected; a
// validated flowgraph never leaves an output port unconnected.
func (p *PortOut[T]) Send(v T) { p.sender.Send(v) }

// Close marks this output producer-dropped, letting the downstream
// receiver report closed once drained. Called by the work-mode helpers in
// work.go when a block's stream terminates, cascading closure forward
// through the flowgraph.
func (p *PortOut[T]) Close() {
	if p.sender != nil {
		p.sender.Close()
	}
}

// PortIn is an input port: a receiver of owned items.
type PortIn[T any] struct {
	receiver Receiver[T]
}

func (p *PortIn[T]) Connected() bool { return p.receiver != nil }

// TryRecv is the non-blocking receive used by the cooperative scheduler.
func (p *PortIn[T]) TryRecv() (T, PollState) { return p.receiver.TryRecv() }

// Recv blocks until an item arrives or the channel closes.
func (p *PortIn[T]) Recv(ctx context.Context) (T, bool) { return p.receiver.Recv(ctx) }

// PortRefIn is an input port yielding borrowed items: the returned
// [RefEnvelope] must be released once the block is done reading it, which
// forwards the item back along the port's return path.
type PortRefIn[T any] struct {
	receiver RefReceiver[T]
}

func (p *PortRefIn[T]) Connected() bool { return p.receiver != nil }

func (p *PortRefIn[T]) TryRecvRef() (RefEnvelope[T], PollState) { return p.receiver.TryRecvRef() }

func (p *PortRefIn[T]) RecvRef(ctx context.Context) (RefEnvelope[T], bool) {
	return p.receiver.RecvRef(ctx)
}

// Close releases this port's return path, cascading closure back toward
// the circuit's source block. Called by the work-mode helpers in work.go
// when a block's stream terminates.
func (p *PortRefIn[T]) Close() {
	if p.receiver != nil {
		p.receiver.Close()
	}
}

// PortSource is a back-edge input port: it supplies a source block with the
// empty (or recycled) buffers that close a circuit's return loop. Mechanically
// identical to PortIn; kept as a distinct type so [Connect]/[ConnectWithReturn]
// can restrict which port kinds pair together at compile time.
type PortSource[T any] struct {
	receiver Receiver[T]
}

func (p *PortSource[T]) Connected() bool { return p.receiver != nil }

func (p *PortSource[T]) TryRecv() (T, PollState) { return p.receiver.TryRecv() }

func (p *PortSource[T]) Recv(ctx context.Context) (T, bool) { return p.receiver.Recv(ctx) }

// Endpoint binds a port field of a specific block to its flowgraph identity,
// the handle the Connect functions use to wire real channels into it at
// connect time. The flowgraph field lets Connect reject an
// endpoint pulled from a different [Flowgraph] than the one it's being wired
// into, rather than silently mixing graphs.
type Endpoint[P any] struct {
	flowgraph FlowgraphID
	node      NodeID
	port      PortID
	ptr       *P
}

// endpointBase is the type-erased view of an Endpoint used by the flowgraph
// to track edges without depending on every instantiated port type.
type endpointBase struct {
	node NodeID
	port PortID
}

func (e Endpoint[P]) base() endpointBase { return endpointBase{node: e.node, port: e.port} }

// NewEndpoint binds port (a field of the block owning node) into an
// Endpoint the Connect functions can wire. Blocks call this from their
// accessor methods, e.g. func (b *Head[T]) InputEndpoint() Endpoint[PortIn[T]],
// passing the id of the flowgraph that reserved node for them.
func NewEndpoint[P any](fg FlowgraphID, node NodeID, port PortID, ptr *P) Endpoint[P] {
	return Endpoint[P]{flowgraph: fg, node: node, port: port, ptr: ptr}
}
