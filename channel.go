// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "context"

// PollState is the outcome of a non-blocking receive attempt, mirroring the
// three states a cooperative stream can be in on a given poll.
type PollState int

const (
	// PollReady means a value was produced; it accompanies the item.
	PollReady PollState = iota
	// PollPending means no value is available yet but the channel remains
	// open; the caller should poll again on a later scheduler round.
	PollPending
	// PollClosed means the channel is drained and its producer has gone
	// away; no further values will ever arrive.
	PollClosed
)

func (s PollState) String() string {
	switch s {
	case PollReady:
		return "ready"
	case PollPending:
		return "pending"
	case PollClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sender is the producer side of a channel carrying items of type T.
type Sender[T any] interface {
	// Send enqueues v. It never blocks; capacity is guaranteed by a
	// validated flowgraph's initial-message discipline, so a full channel
	// indicates a wiring error and Send panics.
	Send(v T)
	// Close marks the channel as producer-dropped.
	Close()
}

// Receiver is the consumer side of a channel carrying owned items of type T.
type Receiver[T any] interface {
	// TryRecv never blocks the calling goroutine; it is the consumption
	// path used by the cooperative scheduler.
	TryRecv() (T, PollState)
	// Recv blocks until an item is available, the channel closes, or ctx
	// is done. Intended for a dedicated consumer goroutine running
	// outside the cooperative scheduler.
	Recv(ctx context.Context) (T, bool)
	Close()
}

// RefReceiver is the consumer side of a channel carrying borrowed items:
// the returned [RefEnvelope] must be released back to its source once the
// caller is done reading it.
type RefReceiver[T any] interface {
	TryRecvRef() (RefEnvelope[T], PollState)
	RecvRef(ctx context.Context) (RefEnvelope[T], bool)
	Close()
}

// ConnectInitial seeds sender with up to capacity items taken off the front
// of initial, truncating any excess so a circuit's starting buffer pool
// never exceeds the channel it circulates through. It models the "circuit
// construction may seed a channel with initial messages" step of connecting
// ports with an inject_messages source.
func ConnectInitial[T any](sender Sender[T], capacity int, initial []T) {
	for _, v := range initial[:min(len(initial), capacity)] {
		sender.Send(v)
	}
}
