// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"
	"errors"
	"testing"
)

func TestRunInPlacePassesThroughUntilDone(t *testing.T) {
	in, inRecv := NewSPSC[int](8)
	var out PortOut[int]
	outSender, outRecv := NewSPSC[int](8)
	out.sender = outSender

	var inPort PortIn[int]
	inPort.receiver = inRecv

	calls := 0
	s := RunInPlace[int](&inPort, &out, func(item *int) (WorkStatus, error) {
		calls++
		*item *= 2
		if calls == 3 {
			return WorkDoneWithOutput, nil
		}
		return WorkRun, nil
	})

	in.Send(1)
	in.Send(2)
	in.Send(3)

	for i := 0; i < 3; i++ {
		state, err := s.Poll(context.Background())
		if err != nil {
			t.Fatalf("Poll %d: %v", i, err)
		}
		if i < 2 && state != PollReady {
			t.Fatalf("Poll %d: want PollReady, got %v", i, state)
		}
		if i == 2 && state != PollClosed {
			t.Fatalf("Poll %d: want PollClosed, got %v", i, state)
		}
	}

	for _, want := range []int{2, 4, 6} {
		v, state := outRecv.TryRecv()
		if state != PollReady || v != want {
			t.Fatalf("want (%d, PollReady), got (%d, %v)", want, v, state)
		}
	}
}

func TestRunInPlacePropagatesKernelError(t *testing.T) {
	var inPort PortIn[int]
	fwdSender, fwdRecv := NewSPSC[int](4)
	inPort.receiver = fwdRecv

	var out PortOut[int]
	outSender, _ := NewSPSC[int](4)
	out.sender = outSender

	wantErr := errors.New("kernel failed")
	s := RunInPlace[int](&inPort, &out, func(item *int) (WorkStatus, error) {
		return WorkRun, wantErr
	})
	fwdSender.Send(1)

	_, err := s.Poll(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("want wantErr, got %v", err)
	}
}

func TestRunSinkReleasesEnvelopeAndPropagatesError(t *testing.T) {
	fwdSender, fwdRecv := NewSPSC[int](4)
	retSender, retRecv := NewSPSC[int](4)
	refRecv := NewRefReceiver[int](fwdRecv, retSender)

	var in PortRefIn[int]
	in.receiver = refRecv

	fwdSender.Send(5)

	wantErr := errors.New("sink failed")
	s := RunSink[int](&in, func(item *int) (BlockWorkStatus, error) {
		if *item == 5 {
			return BlockRun, wantErr
		}
		return BlockRun, nil
	})

	_, err := s.Poll(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("want wantErr, got %v", err)
	}
	// The envelope must still have been released before the error
	// propagated, returning the item along its return path.
	v, state := retRecv.TryRecv()
	if state != PollReady || v != 5 {
		t.Fatalf("want (5, PollReady) on return path, got (%d, %v)", v, state)
	}
}

func TestRunWithRefRetainsPendingAcrossPolls(t *testing.T) {
	srcSender, srcRecv := NewSPSC[int](4)
	var source PortIn[int]
	source.receiver = srcRecv

	fwdSender, fwdRecv := NewSPSC[int](4)
	retSender, _ := NewSPSC[int](4)
	refRecv := NewRefReceiver[int](fwdRecv, retSender)
	var in PortRefIn[int]
	in.receiver = refRecv

	outSender, outRecv := NewSPSC[int](4)
	var out PortOut[int]
	out.sender = outSender

	s := RunWithRef[int, int](&source, &in, &out, func(inItem *int, outItem *int) (WorkStatus, error) {
		*outItem = *inItem + *outItem
		return WorkRun, nil
	})

	srcSender.Send(100)

	// No input ref available yet: must return Pending and retain the
	// already-received source item for the next Poll.
	state, err := s.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll 1: %v", err)
	}
	if state != PollPending {
		t.Fatalf("Poll 1: want PollPending, got %v", state)
	}

	fwdSender.Send(7)
	state, err = s.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll 2: %v", err)
	}
	if state != PollReady {
		t.Fatalf("Poll 2: want PollReady, got %v", state)
	}

	v, recvState := outRecv.TryRecv()
	if recvState != PollReady || v != 107 {
		t.Fatalf("want (107, PollReady), got (%d, %v)", v, recvState)
	}
}
