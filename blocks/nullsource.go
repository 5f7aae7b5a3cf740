// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import "code.hybscloud.com/qsdr"

// NullSource is a WorkInPlace block that does nothing to the item it
// receives from its own PortSource before sending it on: the minimal block
// that owns a circuit's buffer pool without transforming it.
type NullSource[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortSource[T]
	Output    qsdr.PortOut[T]
}

// NewNullSource reserves a node for fg and returns the block.
func NewNullSource[T any](fg *qsdr.Flowgraph) *NullSource[T] {
	return &NullSource[T]{flowgraph: fg.ID(), node: fg.NewNode()}
}

// InputEndpoint is the circuit's back-edge: the PortSource NullSource reads
// recycled buffers from.
func (b *NullSource[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortSource[T]] {
	return qsdr.NewEndpoint[qsdr.PortSource[T]](b.flowgraph, b.node, 0, &b.Input)
}

// OutputEndpoint is the forward edge NullSource sends each item out on.
func (b *NullSource[T]) OutputEndpoint() qsdr.Endpoint[qsdr.PortOut[T]] {
	return qsdr.NewEndpoint[qsdr.PortOut[T]](b.flowgraph, b.node, 1, &b.Output)
}

// Stream builds the block's cooperative [qsdr.Stream].
func (b *NullSource[T]) Stream() qsdr.Stream {
	return qsdr.RunInPlace[T](&b.Input, &b.Output, func(item *T) (qsdr.WorkStatus, error) {
		return qsdr.WorkRun, nil
	})
}
