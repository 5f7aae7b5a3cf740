// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

// Quantum is a [Buffer] plus two indices delimiting a "text" sub-slice — the
// unit of flow circulated between blocks. A Quantum is mutated only by the
// block currently holding exclusive ownership of it; it is local,
// unsynchronized state, never shared concurrently.
type Quantum[T any] struct {
	sheet sheet[T]
}

// NewQuantum wraps buffer in a Quantum with no margins (the full buffer is
// text).
func NewQuantum[T any](buffer Buffer[T]) Quantum[T] {
	return Quantum[T]{sheet: newSheet(buffer)}
}

// AsSlice returns the current text region, read-only by convention (callers
// needing mutation use AsMutSlice).
func (q *Quantum[T]) AsSlice() []T { return q.sheet.asSlice() }

// AsMutSlice returns the current text region for in-place mutation.
func (q *Quantum[T]) AsMutSlice() []T { return q.sheet.asSlice() }

// LeftMarginLen returns the number of items available to [Quantum.ExtendLeft].
func (q *Quantum[T]) LeftMarginLen() int { return q.sheet.leftMarginLen() }

// RightMarginLen returns the number of items available to [Quantum.ExtendRight].
func (q *Quantum[T]) RightMarginLen() int { return q.sheet.rightMarginLen() }

// SetMargins atomically repositions both margins. Panics if
// left+right > buffer length.
func (q *Quantum[T]) SetMargins(left, right int) { q.sheet.setMargins(left, right) }

// Len returns the length of the text region.
func (q *Quantum[T]) Len() int { return q.sheet.len() }

// IsEmpty reports whether the text region is empty.
func (q *Quantum[T]) IsEmpty() bool { return q.Len() == 0 }

// ExtendLeft grows the text region to the left by n items, taken from the
// left margin. Panics if n exceeds LeftMarginLen.
func (q *Quantum[T]) ExtendLeft(n int) { q.sheet.extendLeft(n) }

// ExtendRight grows the text region to the right by n items, taken from the
// right margin. Panics if n exceeds RightMarginLen.
func (q *Quantum[T]) ExtendRight(n int) { q.sheet.extendRight(n) }

// ShrinkLeft shrinks the text region from the left by n items, returning
// them to the left margin. Panics if n exceeds Len.
func (q *Quantum[T]) ShrinkLeft(n int) { q.sheet.shrinkLeft(n) }

// ShrinkRight shrinks the text region from the right by n items, returning
// them to the right margin. Panics if n exceeds Len.
func (q *Quantum[T]) ShrinkRight(n int) { q.sheet.shrinkRight(n) }

// Snapshot clones the current text region into an owned [QuantumSnapshot],
// escaping the circulating buffer pool. Used by sinks/tests that need to
// retain output past the buffer's return to its source.
func Snapshot[T any](q *Quantum[T]) QuantumSnapshot[T] {
	src := q.AsSlice()
	dst := make([]T, len(src))
	copy(dst, src)
	return QuantumSnapshot[T]{slice: dst}
}

// QuantumSnapshot is an owned clone of a Quantum's text region.
type QuantumSnapshot[T any] struct {
	slice []T
}

// NewQuantumSnapshotFromSlice copies slice into an owned snapshot.
func NewQuantumSnapshotFromSlice[T any](slice []T) QuantumSnapshot[T] {
	dst := make([]T, len(slice))
	copy(dst, slice)
	return QuantumSnapshot[T]{slice: dst}
}

// NewQuantumSnapshotFromOwned wraps an already-owned slice without copying.
func NewQuantumSnapshotFromOwned[T any](slice []T) QuantumSnapshot[T] {
	return QuantumSnapshot[T]{slice: slice}
}

// AsSlice returns the snapshot's contents.
func (s QuantumSnapshot[T]) AsSlice() []T { return s.slice }

// AsMutSlice returns the snapshot's contents for mutation.
func (s QuantumSnapshot[T]) AsMutSlice() []T { return s.slice }
