// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"context"
	"errors"
	"testing"
)

type countingStream struct {
	remaining int
	polls     int
}

func (s *countingStream) Poll(ctx context.Context) (PollState, error) {
	s.polls++
	if s.remaining == 0 {
		return PollClosed, nil
	}
	s.remaining--
	if s.remaining == 0 {
		return PollClosed, nil
	}
	return PollReady, nil
}

func TestRunDrivesStreamToClosed(t *testing.T) {
	s := &countingStream{remaining: 5}
	if err := Run(context.Background(), s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.remaining != 0 {
		t.Fatalf("want remaining 0, got %d", s.remaining)
	}
}

var errBoom = errors.New("boom")

type erroringStream struct{}

func (erroringStream) Poll(ctx context.Context) (PollState, error) {
	return PollReady, errBoom
}

func TestRunPropagatesError(t *testing.T) {
	err := Run(context.Background(), erroringStream{})
	if !errors.Is(err, errBoom) {
		t.Fatalf("want errBoom, got %v", err)
	}
}

func TestSequenceNotPendingWhenAllSubStreamsClose(t *testing.T) {
	a := &countingStream{remaining: 0}
	b := &countingStream{remaining: 0}
	seq := Sequence(a, b)
	state, err := seq.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if state != PollClosed {
		t.Fatalf("both streams already closed: want PollClosed, got %v", state)
	}
}

func TestSequenceClosesOnlyAfterEverySubStreamCloses(t *testing.T) {
	a := &countingStream{remaining: 2}
	b := &countingStream{remaining: 5}
	seq := Sequence(a, b)

	closed := false
	for i := 0; i < 10 && !closed; i++ {
		state, err := seq.Poll(context.Background())
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if state == PollClosed {
			closed = true
		}
	}
	if !closed {
		t.Fatal("sequence never closed")
	}
	if a.remaining != 0 || b.remaining != 0 {
		t.Fatalf("want both sub-streams drained, got a=%d b=%d", a.remaining, b.remaining)
	}
}

func TestSequencePropagatesFirstError(t *testing.T) {
	a := &countingStream{remaining: 3}
	seq := Sequence(a, erroringStream{})
	_, err := seq.Poll(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("want errBoom, got %v", err)
	}
}
