// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "context"

// Stream is one block's unit of cooperative work: each Poll either performs
// one round of work (PollReady), finds nothing to do yet (PollPending), or
// terminates permanently (PollClosed). A non-nil error always terminates
// the stream regardless of the returned PollState.
type Stream interface {
	Poll(ctx context.Context) (PollState, error)
}

// Run drives s to completion, yielding control between rounds by checking
// ctx. It returns the first error the stream produces, if any.
func Run(ctx context.Context, s Stream) error {
	for {
		state, err := s.Poll(ctx)
		if err != nil {
			return err
		}
		if state == PollClosed {
			return nil
		}
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

// sequence composes N streams into one: a round is Pending only if every
// sub-stream is Pending; it is Ready as long as any sub-stream produced
// work; it terminates only once every sub-stream has terminated, and
// propagates the first error eagerly. This is the Go generalization of the
// Rust qsdr scheduler's fixed-arity sequence2..sequence8 combinators.
type sequence struct {
	streams []Stream
	done    []bool
}

// Sequence combines streams into a single Stream, polling every
// not-yet-terminated sub-stream once per round.
func Sequence(streams ...Stream) Stream {
	return &sequence{streams: streams, done: make([]bool, len(streams))}
}

func (s *sequence) Poll(ctx context.Context) (PollState, error) {
	anyReady := false
	allDone := true
	for i, sub := range s.streams {
		if s.done[i] {
			continue
		}
		state, err := sub.Poll(ctx)
		if err != nil {
			return PollReady, err
		}
		switch state {
		case PollReady:
			anyReady = true
		case PollClosed:
			s.done[i] = true
		case PollPending:
		}
		if !s.done[i] {
			allDone = false
		}
	}
	if allDone {
		return PollClosed, nil
	}
	if anyReady {
		return PollReady, nil
	}
	return PollPending, nil
}
