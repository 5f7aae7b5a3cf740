// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import "code.hybscloud.com/qsdr"

// Passthrough is a WorkInPlace block that forwards every item unchanged;
// useful as a placeholder node while wiring a circuit, or as a tap point
// for later instrumentation.
type Passthrough[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortIn[T]
	Output    qsdr.PortOut[T]
}

// NewPassthrough reserves a node for fg and returns the block.
func NewPassthrough[T any](fg *qsdr.Flowgraph) *Passthrough[T] {
	return &Passthrough[T]{flowgraph: fg.ID(), node: fg.NewNode()}
}

func (b *Passthrough[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortIn[T]] {
	return qsdr.NewEndpoint[qsdr.PortIn[T]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *Passthrough[T]) OutputEndpoint() qsdr.Endpoint[qsdr.PortOut[T]] {
	return qsdr.NewEndpoint[qsdr.PortOut[T]](b.flowgraph, b.node, 1, &b.Output)
}

func (b *Passthrough[T]) Stream() qsdr.Stream {
	return qsdr.RunInPlace[T](&b.Input, &b.Output, func(item *T) (qsdr.WorkStatus, error) {
		return qsdr.WorkRun, nil
	})
}
