// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"
	"sort"
	"sync"
	"testing"
)

func TestMPSCSingleProducerFIFO(t *testing.T) {
	const n = 500
	sender, receiver := NewMPSC[int](n)
	for i := 0; i < n; i++ {
		sender.Send(i)
	}
	for i := 0; i < n; i++ {
		v, state := receiver.TryRecv()
		if state != PollReady || v != i {
			t.Fatalf("item %d: want (%d, PollReady), got (%d, %v)", i, i, v, state)
		}
	}
}

func TestMPSCCloseAfterLastCloneDrains(t *testing.T) {
	sender, receiver := NewMPSC[int](4)
	clone := sender.Clone()
	sender.Send(1)
	clone.Send(2)
	sender.Close()
	if _, state := receiver.TryRecv(); state == PollClosed {
		t.Fatalf("channel reported closed while a clone is still live")
	}
	clone.Close()

	seen := map[int]bool{}
	for {
		v, state := receiver.TryRecv()
		if state == PollClosed {
			break
		}
		if state != PollReady {
			t.Fatalf("want PollReady or PollClosed, got %v", state)
		}
		seen[v] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("want both items drained before close, got %v", seen)
	}
}

func TestMPSCMultipleProducersNoLossOrDuplication(t *testing.T) {
	if RaceEnabled {
		t.Skip("skip: FAA-based slot claiming uses cross-variable memory ordering")
	}

	const producers = 8
	const perProducer = 400
	const total = producers * perProducer

	sender, receiver := NewMPSC[int](total)
	clones := make([]*MPSCSender[int], producers)
	clones[0] = sender
	for i := 1; i < producers; i++ {
		clones[i] = sender.Clone()
	}

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			base := p * perProducer
			for i := 0; i < perProducer; i++ {
				clones[p].Send(base + i)
			}
			clones[p].Close()
		}()
	}

	got := make([]int, 0, total)
	for {
		v, ok := receiver.Recv(context.Background())
		if !ok {
			break
		}
		got = append(got, v)
	}
	wg.Wait()

	if len(got) != total {
		t.Fatalf("want %d items, got %d", total, len(got))
	}
	sort.Ints(got)
	for i, v := range got {
		if v != i {
			t.Fatalf("position %d: want %d, got %d (loss or duplication)", i, i, v)
		}
	}
}
