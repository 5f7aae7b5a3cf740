// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import "code.hybscloud.com/qsdr"

// RefClone is a WorkWithRef block: it borrows a Quantum from its upstream
// circuit and copies its text region into an empty Quantum pulled from a
// second, independent circuit, so the copy can outlive the original's
// return to its own buffer pool.
type RefClone[B any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortRefIn[qsdr.Quantum[B]]
	Source    qsdr.PortSource[qsdr.Quantum[B]]
	Output    qsdr.PortOut[qsdr.Quantum[B]]
}

// NewRefClone reserves a node for fg and returns the block.
func NewRefClone[B any](fg *qsdr.Flowgraph) *RefClone[B] {
	return &RefClone[B]{flowgraph: fg.ID(), node: fg.NewNode()}
}

func (b *RefClone[B]) InputEndpoint() qsdr.Endpoint[qsdr.PortRefIn[qsdr.Quantum[B]]] {
	return qsdr.NewEndpoint[qsdr.PortRefIn[qsdr.Quantum[B]]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *RefClone[B]) SourceEndpoint() qsdr.Endpoint[qsdr.PortSource[qsdr.Quantum[B]]] {
	return qsdr.NewEndpoint[qsdr.PortSource[qsdr.Quantum[B]]](b.flowgraph, b.node, 1, &b.Source)
}

func (b *RefClone[B]) OutputEndpoint() qsdr.Endpoint[qsdr.PortOut[qsdr.Quantum[B]]] {
	return qsdr.NewEndpoint[qsdr.PortOut[qsdr.Quantum[B]]](b.flowgraph, b.node, 2, &b.Output)
}

func (b *RefClone[B]) Stream() qsdr.Stream {
	return qsdr.RunWithRef[qsdr.Quantum[B], qsdr.Quantum[B]](&b.Source, &b.Input, &b.Output,
		func(in *qsdr.Quantum[B], out *qsdr.Quantum[B]) (qsdr.WorkStatus, error) {
			sliceIn := in.AsSlice()
			sliceOut := out.AsMutSlice()
			if len(sliceIn) != len(sliceOut) {
				panic("blocks: RefClone input/output length mismatch")
			}
			copy(sliceOut, sliceIn)
			return qsdr.WorkRun, nil
		})
}
