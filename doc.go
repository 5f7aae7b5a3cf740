// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qsdr is a dataflow runtime for streaming digital-signal-processing
// pipelines: blocks connected into flowgraphs through typed ports, scheduled
// cooperatively over bounded lock-free channels.
//
// # Data model
//
// A [Buffer] is owned, cache-aligned contiguous storage; a [Quantum] wraps
// one Buffer with adjustable left/right margins delimiting a "text"
// sub-slice, the unit of data a block reads and writes:
//
//	buf := qsdr.NewCacheAlignedBuffer[float32](1024)
//	q := qsdr.NewQuantum[float32](buf)
//	q.AsMutSlice()[0] = 1.0
//
// # Channels
//
// Quanta circulate between blocks over one of two channel families, both
// built on the same packed-control-word sleeping/dropped protocol and the
// same spin-then-park slow path:
//
//   - [NewSPSC]: one producer, one consumer.
//   - [NewMPSC]: many producers (via [MPSCSender.Clone]), one consumer.
//
// Both expose TryRecv for the cooperative scheduler ([Run], [Sequence]) and
// a blocking Recv for a dedicated consumer goroutine. A broadcast channel
// ([NewSPBroadcast]) layers reference
// counting on top of a fan-out of SPSC channels plus one shared MPSC return
// path, letting several consumers borrow the same quantum without copying
// it, returning it to the producer only once every consumer has released
// its reference.
//
// # Flowgraphs
//
// A [Flowgraph] wires [Block] instances together through typed ports. Every
// circuit — the connected component reachable from one source block — must
// validate as a tree rooted at exactly one return endpoint before it can be
// scheduled ([Flowgraph.Validate]); wiring mistakes surface as a
// [WiringError] rather than at runtime.
//
// # Scheduling
//
// [Run] drives a block stream to completion. [Sequence] combines
// several streams into one, polling every sub-stream each round and
// reporting Pending only when all of them are, so no single slow stream
// starves the others.
//
// # Dependencies
//
//   - code.hybscloud.com/atomix for explicit-ordering atomics on every
//     shared control word.
//   - code.hybscloud.com/spin for the bounded spin phase before a consumer
//     parks.
//   - code.hybscloud.com/iox for the would-block/semantic error
//     classification shared with the rest of the channel family.
//   - golang.org/x/sys/unix for the Linux futex backend behind a blocking
//     Recv; non-Linux platforms fall back to bounded backoff sleeps.
//
// # Race detector
//
// [RaceEnabled] reports whether the build includes the race detector.
// Several stress tests skip themselves under the race detector: the
// lock-free channels rely on memory orderings the detector's happens-before
// model does not fully recognize, producing false positives rather than
// real races.
package qsdr
