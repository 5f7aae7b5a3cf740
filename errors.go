// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed
// immediately. The channels in this package do not return it: TryRecv
// reports an empty channel as [PollPending], and there is no TrySend.
//
// It is a control flow signal, not a failure, sourced from [iox.ErrWouldBlock]
// for ecosystem consistency with the channel family this package builds on.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal, not a failure.
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// WiringError reports a flowgraph construction mistake: a port connected
// twice, an endpoint from a foreign flowgraph, or a circuit that fails the
// tree-rooted-at-return invariant. WiringError is always returned by
// [Flowgraph.Validate] or the Connect functions, never panicked.
type WiringError struct {
	// Circuit is the offending circuit id, or -1 if the error is not
	// circuit-scoped (e.g. an endpoint ownership mismatch).
	Circuit int
	Reason  string
}

func (e *WiringError) Error() string {
	if e.Circuit >= 0 {
		return fmt.Sprintf("qsdr: circuit %d: %s", e.Circuit, e.Reason)
	}
	return fmt.Sprintf("qsdr: %s", e.Reason)
}

func wiringErrorf(circuit int, format string, args ...any) error {
	return &WiringError{Circuit: circuit, Reason: fmt.Sprintf(format, args...)}
}
