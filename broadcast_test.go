// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "testing"

func TestSPBroadcastFansOutToEveryConsumer(t *testing.T) {
	const consumers = 3
	sender, receivers, retReceiver, seedSender := NewSPBroadcast[int](8, consumers)
	seedSender.Close()

	sender.Send(42)

	for i, r := range receivers {
		env, state := r.TryRecvRef()
		if state != PollReady {
			t.Fatalf("consumer %d: want PollReady, got %v", i, state)
		}
		if got := *env.Get(); got != 42 {
			t.Fatalf("consumer %d: want 42, got %d", i, got)
		}
		if i < consumers-1 {
			// Buffer must not return until every consumer has released.
			if _, state := retReceiver.TryRecv(); state == PollReady {
				t.Fatalf("consumer %d: buffer returned before all consumers released", i)
			}
		}
		env.Release()
	}

	v, state := retReceiver.TryRecv()
	if state != PollReady {
		t.Fatalf("want buffer returned after last release, got %v", state)
	}
	if v != 42 {
		t.Fatalf("want returned value 42, got %d", v)
	}
}

func TestSPBroadcastFanOutOverManyElementsInOrder(t *testing.T) {
	if RaceEnabled {
		t.Skip("skip: refcounted slot pool uses cross-variable memory ordering")
	}

	const elements = 10_000
	const consumers = 3
	const capacity = 64

	sender, receivers, retReceiver, seedSender := NewSPBroadcast[int](capacity, consumers)
	seedSender.Close()

	seen := make([][]int, consumers)
	returned := make(map[int]int)

	// One value in flight at a time: send it, let every consumer receive
	// and release its own reference, then confirm it came back exactly
	// once before moving on. This keeps the pool's slot reuse well within
	// capacity regardless of element count.
	for v := 0; v < elements; v++ {
		sender.Send(v)
		for i, r := range receivers {
			env, state := r.TryRecvRef()
			if state != PollReady {
				t.Fatalf("consumer %d: want PollReady for value %d, got %v", i, v, state)
			}
			seen[i] = append(seen[i], *env.Get())
			env.Release()
		}
		got, state := retReceiver.TryRecv()
		if state != PollReady {
			t.Fatalf("want value %d returned after every consumer released, got %v", v, state)
		}
		returned[got]++
	}

	for i := range receivers {
		if len(seen[i]) != elements {
			t.Fatalf("consumer %d: want %d elements, got %d", i, elements, len(seen[i]))
		}
		for j, v := range seen[i] {
			if v != j {
				t.Fatalf("consumer %d: index %d out of order, want %d got %d", i, j, j, v)
			}
		}
	}
	if len(returned) != elements {
		t.Fatalf("want %d distinct buffers returned, got %d", elements, len(returned))
	}
	for v, count := range returned {
		if count != 1 {
			t.Fatalf("value %d returned %d times, want exactly once", v, count)
		}
	}
}

func TestSPBroadcastReleaseIsIdempotent(t *testing.T) {
	sender, receivers, _, seedSender := NewSPBroadcast[int](8, 1)
	seedSender.Close()
	sender.Send(7)

	env, state := receivers[0].TryRecvRef()
	if state != PollReady {
		t.Fatalf("want PollReady, got %v", state)
	}
	env.Release()
	env.Release() // must not double-return the slot
}
