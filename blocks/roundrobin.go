// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import (
	"context"

	"code.hybscloud.com/qsdr"
)

// RoundRobin is a WorkCustom block: neither of the three declarative work
// modes fits a block with more than one output port, so it implements
// [qsdr.Stream] directly, alternating which output each received item goes
// to.
type RoundRobin[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortIn[T]
	Output0   qsdr.PortOut[T]
	Output1   qsdr.PortOut[T]
	next      int
}

// NewRoundRobin reserves a node for fg and returns the block.
func NewRoundRobin[T any](fg *qsdr.Flowgraph) *RoundRobin[T] {
	return &RoundRobin[T]{flowgraph: fg.ID(), node: fg.NewNode()}
}

func (b *RoundRobin[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortIn[T]] {
	return qsdr.NewEndpoint[qsdr.PortIn[T]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *RoundRobin[T]) Output0Endpoint() qsdr.Endpoint[qsdr.PortOut[T]] {
	return qsdr.NewEndpoint[qsdr.PortOut[T]](b.flowgraph, b.node, 1, &b.Output0)
}

func (b *RoundRobin[T]) Output1Endpoint() qsdr.Endpoint[qsdr.PortOut[T]] {
	return qsdr.NewEndpoint[qsdr.PortOut[T]](b.flowgraph, b.node, 2, &b.Output1)
}

// Stream returns the block itself: a WorkCustom block is its own Stream.
func (b *RoundRobin[T]) Stream() qsdr.Stream { return b }

func (b *RoundRobin[T]) Poll(ctx context.Context) (qsdr.PollState, error) {
	item, state := b.Input.TryRecv()
	if state != qsdr.PollReady {
		if state == qsdr.PollClosed {
			b.Output0.Close()
			b.Output1.Close()
		}
		return state, nil
	}
	if b.next == 0 {
		b.Output0.Send(item)
	} else {
		b.Output1.Send(item)
	}
	b.next ^= 1
	return qsdr.PollReady, nil
}
