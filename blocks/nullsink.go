// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import "code.hybscloud.com/qsdr"

// NullSink is a WorkSink block that discards everything it receives,
// releasing each borrowed item straight back along its return path.
type NullSink[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortRefIn[T]
}

// NewNullSink reserves a node for fg and returns the block.
func NewNullSink[T any](fg *qsdr.Flowgraph) *NullSink[T] {
	return &NullSink[T]{flowgraph: fg.ID(), node: fg.NewNode()}
}

func (b *NullSink[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortRefIn[T]] {
	return qsdr.NewEndpoint[qsdr.PortRefIn[T]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *NullSink[T]) Stream() qsdr.Stream {
	return qsdr.RunSink[T](&b.Input, func(item *T) (qsdr.BlockWorkStatus, error) {
		return qsdr.BlockRun, nil
	})
}
