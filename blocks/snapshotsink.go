// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import (
	"context"

	"code.hybscloud.com/qsdr"
)

// SnapshotSink is a WorkSink block that snapshots each borrowed Quantum and
// forwards the owned copy to an external [Sink], releasing the original
// immediately afterward.
type SnapshotSink[T any] struct {
	flowgraph qsdr.FlowgraphID
	node      qsdr.NodeID
	Input     qsdr.PortRefIn[qsdr.Quantum[T]]
	sink      Sink[T]
}

// NewSnapshotSink reserves a node for fg and returns a block draining into
// sink.
func NewSnapshotSink[T any](fg *qsdr.Flowgraph, sink Sink[T]) *SnapshotSink[T] {
	return &SnapshotSink[T]{flowgraph: fg.ID(), node: fg.NewNode(), sink: sink}
}

func (b *SnapshotSink[T]) InputEndpoint() qsdr.Endpoint[qsdr.PortRefIn[qsdr.Quantum[T]]] {
	return qsdr.NewEndpoint[qsdr.PortRefIn[qsdr.Quantum[T]]](b.flowgraph, b.node, 0, &b.Input)
}

func (b *SnapshotSink[T]) Stream() qsdr.Stream {
	return qsdr.RunSink[qsdr.Quantum[T]](&b.Input, func(quantum *qsdr.Quantum[T]) (qsdr.BlockWorkStatus, error) {
		if err := b.sink.Send(context.Background(), qsdr.Snapshot(quantum)); err != nil {
			return qsdr.BlockRun, err
		}
		return qsdr.BlockRun, nil
	})
}
