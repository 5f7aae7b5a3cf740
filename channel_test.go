// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "testing"

func TestConnectInitialFillsUpToCapacity(t *testing.T) {
	sender, receiver := NewSPSC[int](4)
	ConnectInitial[int](sender, 4, []int{1, 2, 3, 4})

	for i := 1; i <= 4; i++ {
		v, state := receiver.TryRecv()
		if state != PollReady || v != i {
			t.Fatalf("item %d: want (%d, PollReady), got (%d, %v)", i, i, v, state)
		}
	}
	if _, state := receiver.TryRecv(); state != PollPending {
		t.Fatalf("want PollPending after draining, got %v", state)
	}
}

// A circuit's starting buffer pool is exactly min(len(initial), capacity):
// injecting more initial messages than the channel's capacity must not
// panic, it must silently drop the overflow.
func TestConnectInitialTruncatesToCapacity(t *testing.T) {
	sender, receiver := NewSPSC[int](4)
	ConnectInitial[int](sender, 4, []int{1, 2, 3, 4, 5, 6, 7, 8})

	for i := 1; i <= 4; i++ {
		v, state := receiver.TryRecv()
		if state != PollReady || v != i {
			t.Fatalf("item %d: want (%d, PollReady), got (%d, %v)", i, i, v, state)
		}
	}
	if _, state := receiver.TryRecv(); state != PollPending {
		t.Fatalf("want PollPending after draining the truncated pool, got %v", state)
	}
}
