// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "context"

// WorkStatus is the outcome of one WorkInPlace/WorkWithRef step.
type WorkStatus int

const (
	// WorkRun means the block produced output and wants another turn.
	WorkRun WorkStatus = iota
	// WorkDoneWithOutput means this is the block's final turn; its output
	// is still sent before the stream terminates.
	WorkDoneWithOutput
	// WorkDoneWithoutOutput means this is the block's final turn and no
	// output is produced.
	WorkDoneWithoutOutput
)

// ProducesOutput reports whether this status requires sending the item.
func (s WorkStatus) ProducesOutput() bool {
	return s == WorkRun || s == WorkDoneWithOutput
}

// BlockWorkStatus is the outcome of one WorkSink step, which has no output
// port and so no "with/without output" distinction.
type BlockWorkStatus int

const (
	BlockRun BlockWorkStatus = iota
	BlockDone
)

// recvPort is satisfied by both *PortIn[T] and *PortSource[T]: a
// WorkInPlace block's "input" may be either, since a circuit's
// buffer-owning block reads its recycled buffers from a PortSource with the
// identical TryRecv/Recv shape as an ordinary PortIn.
type recvPort[T any] interface {
	TryRecv() (T, PollState)
	Recv(ctx context.Context) (T, bool)
}

// refRecvPort is satisfied by *PortRefIn[T].
type refRecvPort[T any] interface {
	TryRecvRef() (RefEnvelope[T], PollState)
	RecvRef(ctx context.Context) (RefEnvelope[T], bool)
	Close()
}

// inPlaceStream implements the WorkInPlace work mode: receive, run the
// kernel in place, forward unless the kernel reports WorkDoneWithoutOutput.
type inPlaceStream[T any] struct {
	input  recvPort[T]
	output *PortOut[T]
	work   func(item *T) (WorkStatus, error)
}

// RunInPlace builds a [Stream] for a WorkInPlace block: one item in, the
// kernel mutates it, the (possibly mutated) item goes out unless the kernel
// reports WorkDoneWithoutOutput. Either Done status ends the stream.
func RunInPlace[T any](input recvPort[T], output *PortOut[T], work func(item *T) (WorkStatus, error)) Stream {
	return &inPlaceStream[T]{input: input, output: output, work: work}
}

func (s *inPlaceStream[T]) Poll(ctx context.Context) (PollState, error) {
	v, state := s.input.TryRecv()
	if state != PollReady {
		if state == PollClosed {
			s.output.Close()
		}
		return state, nil
	}
	status, err := s.work(&v)
	if err != nil {
		return PollReady, err
	}
	if status.ProducesOutput() {
		s.output.Send(v)
	}
	if status == WorkRun {
		return PollReady, nil
	}
	s.output.Close()
	return PollClosed, nil
}

// sinkStream implements the WorkSink work mode: borrow, run the kernel,
// release.
type sinkStream[T any] struct {
	input refRecvPort[T]
	work  func(item *T) (BlockWorkStatus, error)
}

// RunSink builds a [Stream] for a WorkSink block: it borrows each item via
// a reference envelope, runs the kernel, then releases the item back along
// its return path.
func RunSink[T any](input refRecvPort[T], work func(item *T) (BlockWorkStatus, error)) Stream {
	return &sinkStream[T]{input: input, work: work}
}

func (s *sinkStream[T]) Poll(ctx context.Context) (PollState, error) {
	env, state := s.input.TryRecvRef()
	if state != PollReady {
		if state == PollClosed {
			s.input.Close()
		}
		return state, nil
	}
	status, err := s.work(env.Get())
	env.Release()
	if err != nil {
		return PollReady, err
	}
	if status == BlockDone {
		s.input.Close()
		return PollClosed, nil
	}
	return PollReady, nil
}

// refWorkStream implements the WorkWithRef work mode: an empty item is
// pulled from the circuit's PortSource, the kernel reads a borrowed input
// and writes into the empty item, and the input is released before the
// (possibly withheld) output is sent.
//
// pending holds an already-received empty output item across Poll calls
// when the source recv succeeded but the ref recv is still Pending — the
// Go equivalent of a suspended async function retaining its locals across
// an await point.
type refWorkStream[T, U any] struct {
	source  recvPort[U]
	input   refRecvPort[T]
	output  *PortOut[U]
	work    func(in *T, out *U) (WorkStatus, error)
	pending *U
}

// RunWithRef builds a [Stream] for a WorkWithRef block.
func RunWithRef[T, U any](source recvPort[U], input refRecvPort[T], output *PortOut[U], work func(in *T, out *U) (WorkStatus, error)) Stream {
	return &refWorkStream[T, U]{source: source, input: input, output: output, work: work}
}

func (s *refWorkStream[T, U]) Poll(ctx context.Context) (PollState, error) {
	if s.pending == nil {
		v, state := s.source.TryRecv()
		if state != PollReady {
			if state == PollClosed {
				s.output.Close()
			}
			return state, nil
		}
		s.pending = &v
	}

	env, state := s.input.TryRecvRef()
	if state != PollReady {
		if state == PollClosed {
			s.output.Close()
		}
		return state, nil
	}

	status, err := s.work(env.Get(), s.pending)
	env.Release()
	out := *s.pending
	s.pending = nil

	if err != nil {
		return PollReady, err
	}
	if status.ProducesOutput() {
		s.output.Send(out)
	}
	if status == WorkRun {
		return PollReady, nil
	}
	s.input.Close()
	s.output.Close()
	return PollClosed, nil
}
