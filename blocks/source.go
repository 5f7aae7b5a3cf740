// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blocks

import (
	"context"

	"code.hybscloud.com/qsdr"
)

// Source feeds a [SnapshotSource] block. Recv returns ok=false once the
// source is exhausted; a non-nil error terminates the block's stream.
type Source[T any] interface {
	Recv(ctx context.Context) (snapshot qsdr.QuantumSnapshot[T], ok bool, err error)
}

// Sink drains a [SnapshotSink] block. A non-nil error terminates the
// block's stream.
type Sink[T any] interface {
	Send(ctx context.Context, snapshot qsdr.QuantumSnapshot[T]) error
}

// SliceSource replays a fixed sequence of snapshots, in order, then reports
// exhaustion. It is the Go counterpart of an in-memory test fixture: the
// teacher's tests feed a block from a channel or iterator the same way.
type SliceSource[T any] struct {
	items []qsdr.QuantumSnapshot[T]
	pos   int
}

// NewSliceSource wraps items for replay by a [SnapshotSource] block.
func NewSliceSource[T any](items []qsdr.QuantumSnapshot[T]) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

func (s *SliceSource[T]) Recv(ctx context.Context) (qsdr.QuantumSnapshot[T], bool, error) {
	if s.pos >= len(s.items) {
		return qsdr.QuantumSnapshot[T]{}, false, nil
	}
	v := s.items[s.pos]
	s.pos++
	return v, true, nil
}

// ChanSink forwards every snapshot it receives onto a channel, exposing
// block output through a plain Go channel for tests and downstream
// non-flowgraph consumers.
type ChanSink[T any] struct {
	ch chan<- qsdr.QuantumSnapshot[T]
}

// NewChanSink wraps ch for use by a [SnapshotSink] block.
func NewChanSink[T any](ch chan<- qsdr.QuantumSnapshot[T]) *ChanSink[T] {
	return &ChanSink[T]{ch: ch}
}

func (s *ChanSink[T]) Send(ctx context.Context, snapshot qsdr.QuantumSnapshot[T]) error {
	select {
	case s.ch <- snapshot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
