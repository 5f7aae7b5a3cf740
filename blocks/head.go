// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import "code.hybscloud.com/qsdr"

// Head is a WorkInPlace block that passes through the first count items it
// receives, then terminates the stream after forwarding the count-th.
type Head[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortIn[T]
	Output    qsdr.PortOut[T]
	remaining uint64
}

// NewHead reserves a node for fg and returns a Head that forwards exactly
// count items before ending its circuit's stream.
func NewHead[T any](fg *qsdr.Flowgraph, count uint64) *Head[T] {
	return &Head[T]{flowgraph: fg.ID(), node: fg.NewNode(), remaining: count}
}

func (b *Head[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortIn[T]] {
	return qsdr.NewEndpoint[qsdr.PortIn[T]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *Head[T]) OutputEndpoint() qsdr.Endpoint[qsdr.PortOut[T]] {
	return qsdr.NewEndpoint[qsdr.PortOut[T]](b.flowgraph, b.node, 1, &b.Output)
}

func (b *Head[T]) Stream() qsdr.Stream {
	return qsdr.RunInPlace[T](&b.Input, &b.Output, func(item *T) (qsdr.WorkStatus, error) {
		if b.remaining == 0 {
			panic("blocks: Head invoked after its count was exhausted")
		}
		b.remaining--
		if b.remaining == 0 {
			return qsdr.WorkDoneWithOutput, nil
		}
		return qsdr.WorkRun, nil
	})
}
