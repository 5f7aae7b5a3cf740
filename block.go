// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "context"

// Block is the WorkCustom contract: full control over a block's channels,
// for kernels the three declarative work modes ([RunInPlace], [RunSink],
// [RunWithRef]) don't fit (e.g. [blocks.RoundRobin], which alternates
// between two output ports).
//
// A Block is itself a [Stream]; ports are ordinary fields connected by
// [Connect]/[ConnectWithReturn]/[ConnectBroadcast] before scheduling, so no
// separate seed-to-channel extraction step is needed the way a borrow
// checker would require one.
type Block = Stream

// BlockObject pairs a node's stream with its id, for diagnostics and for
// building descriptive error messages when a stream in a [Sequence] fails.
type BlockObject struct {
	Node   NodeID
	Stream Stream
}

// NewBlockObject wraps s with its node id.
func NewBlockObject(node NodeID, s Stream) *BlockObject {
	return &BlockObject{Node: node, Stream: s}
}

// Poll delegates to the wrapped stream, so a *BlockObject can be passed
// directly to [Sequence].
func (b *BlockObject) Poll(ctx context.Context) (PollState, error) {
	return b.Stream.Poll(ctx)
}
