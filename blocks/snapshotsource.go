// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import (
	"context"

	"code.hybscloud.com/qsdr"
)

// SnapshotSource is a WorkInPlace block that copies each snapshot pulled
// from an external [Source] into the next recycled buffer from its own
// PortSource, then sends it on. It terminates once the Source is
// exhausted.
type SnapshotSource[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortSource[qsdr.Quantum[T]]
	Output    qsdr.PortOut[qsdr.Quantum[T]]
	source    Source[T]
}

// NewSnapshotSource reserves a node for fg and returns a block fed by src.
func NewSnapshotSource[T any](fg *qsdr.Flowgraph, src Source[T]) *SnapshotSource[T] {
	return &SnapshotSource[T]{flowgraph: fg.ID(), node: fg.NewNode(), source: src}
}

func (b *SnapshotSource[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortSource[qsdr.Quantum[T]]] {
	return qsdr.NewEndpoint[qsdr.PortSource[qsdr.Quantum[T]]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *SnapshotSource[T]) OutputEndpoint() qsdr.Endpoint[qsdr.PortOut[qsdr.Quantum[T]]] {
	return qsdr.NewEndpoint[qsdr.PortOut[qsdr.Quantum[T]]](b.flowgraph, b.node, 1, &b.Output)
}

func (b *SnapshotSource[T]) Stream() qsdr.Stream {
	return qsdr.RunInPlace[qsdr.Quantum[T]](&b.Input, &b.Output, func(quantum *qsdr.Quantum[T]) (qsdr.WorkStatus, error) {
		snapshot, ok, err := b.source.Recv(context.Background())
		if err != nil {
			return qsdr.WorkRun, err
		}
		if !ok {
			return qsdr.WorkDoneWithoutOutput, nil
		}
		slice := quantum.AsMutSlice()
		if len(slice) != len(snapshot.AsSlice()) {
			panic("blocks: SnapshotSource buffer/snapshot length mismatch")
		}
		copy(slice, snapshot.AsSlice())
		return qsdr.WorkRun, nil
	})
}
