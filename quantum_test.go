// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "testing"

func TestQuantumMarginRoundTrip(t *testing.T) {
	buf := NewCacheAlignedBuffer[int](10)
	q := NewQuantum[int](buf)

	q.SetMargins(3, 2)
	if got := q.Len(); got != 5 {
		t.Fatalf("Len: want 5, got %d", got)
	}
	if got := q.LeftMarginLen(); got != 3 {
		t.Fatalf("LeftMarginLen: want 3, got %d", got)
	}
	if got := q.RightMarginLen(); got != 2 {
		t.Fatalf("RightMarginLen: want 2, got %d", got)
	}

	q.ExtendLeft(2)
	if got := q.LeftMarginLen(); got != 1 {
		t.Fatalf("after ExtendLeft(2): LeftMarginLen want 1, got %d", got)
	}
	if got := q.Len(); got != 7 {
		t.Fatalf("after ExtendLeft(2): Len want 7, got %d", got)
	}

	q.ShrinkLeft(2)
	if got := q.LeftMarginLen(); got != 3 {
		t.Fatalf("after ShrinkLeft(2): LeftMarginLen want 3, got %d", got)
	}
	if got := q.Len(); got != 5 {
		t.Fatalf("after ShrinkLeft(2): Len want 5, got %d", got)
	}

	q.ExtendRight(2)
	if got := q.RightMarginLen(); got != 0 {
		t.Fatalf("after ExtendRight(2): RightMarginLen want 0, got %d", got)
	}
	if got := q.Len(); got != 7 {
		t.Fatalf("after ExtendRight(2): Len want 7, got %d", got)
	}

	q.ShrinkRight(2)
	if got := q.RightMarginLen(); got != 2 {
		t.Fatalf("after ShrinkRight(2): RightMarginLen want 2, got %d", got)
	}
}

func TestQuantumAsSliceReflectsMargins(t *testing.T) {
	buf := FromFn(6, func(i int) int { return i })
	q := NewQuantum[int](buf)
	q.SetMargins(1, 1)
	got := q.AsSlice()
	want := []int{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("want len %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestQuantumExtendPastMarginPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("want panic extending past left margin")
		}
	}()
	buf := NewCacheAlignedBuffer[int](4)
	q := NewQuantum[int](buf)
	q.SetMargins(1, 0)
	q.ExtendLeft(2)
}

func TestQuantumShrinkPastTextLenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("want panic shrinking past text length")
		}
	}()
	buf := NewCacheAlignedBuffer[int](4)
	q := NewQuantum[int](buf)
	q.ShrinkLeft(5)
}

func TestQuantumSnapshotIsIndependentCopy(t *testing.T) {
	buf := FromFn(4, func(i int) int { return i })
	q := NewQuantum[int](buf)
	snap := Snapshot(&q)
	q.AsMutSlice()[0] = 99
	if snap.AsSlice()[0] != 0 {
		t.Fatalf("snapshot should not alias the quantum's buffer, got %d", snap.AsSlice()[0])
	}
}
