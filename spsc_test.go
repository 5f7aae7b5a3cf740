// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"
	"sync"
	"testing"
)

func TestSPSCFIFO(t *testing.T) {
	const n = 1000
	sender, receiver := NewSPSC[int](n)
	for i := 0; i < n; i++ {
		sender.Send(i)
	}
	for i := 0; i < n; i++ {
		v, state := receiver.TryRecv()
		if state != PollReady {
			t.Fatalf("item %d: want PollReady, got %v", i, state)
		}
		if v != i {
			t.Fatalf("item %d: want %d, got %d", i, i, v)
		}
	}
	if _, state := receiver.TryRecv(); state != PollPending {
		t.Fatalf("empty channel: want PollPending, got %v", state)
	}
}

func TestSPSCCloseDrainsThenReportsClosed(t *testing.T) {
	sender, receiver := NewSPSC[int](4)
	sender.Send(1)
	sender.Send(2)
	sender.Close()

	if v, state := receiver.TryRecv(); state != PollReady || v != 1 {
		t.Fatalf("want (1, PollReady), got (%d, %v)", v, state)
	}
	if v, state := receiver.TryRecv(); state != PollReady || v != 2 {
		t.Fatalf("want (2, PollReady), got (%d, %v)", v, state)
	}
	if _, state := receiver.TryRecv(); state != PollClosed {
		t.Fatalf("want PollClosed after drain, got %v", state)
	}
}

func TestSPSCRecvBlocksUntilSend(t *testing.T) {
	sender, receiver := NewSPSC[int](4)
	var wg sync.WaitGroup
	wg.Add(1)
	var got int
	var ok bool
	go func() {
		defer wg.Done()
		got, ok = receiver.Recv(context.Background())
	}()
	sender.Send(42)
	wg.Wait()
	if !ok || got != 42 {
		t.Fatalf("want (42, true), got (%d, %v)", got, ok)
	}
}

func TestSPSCBatchedReleaseNoLossAcrossManySlots(t *testing.T) {
	const n = maxPendingSlots*3 + 7
	sender, receiver := NewSPSC[int](n)
	var wg sync.WaitGroup
	wg.Add(1)
	received := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			v, ok := receiver.Recv(context.Background())
			if !ok {
				t.Errorf("unexpected close at item %d", i)
				return
			}
			received = append(received, v)
		}
	}()
	for i := 0; i < n; i++ {
		sender.Send(i)
	}
	wg.Wait()
	if len(received) != n {
		t.Fatalf("want %d items, got %d", n, len(received))
	}
	for i, v := range received {
		if v != i {
			t.Fatalf("item %d: want %d, got %d", i, i, v)
		}
	}
}
