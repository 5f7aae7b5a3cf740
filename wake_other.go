// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package qsdr

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
)

// wakeWaiter is the portable fallback backend for platforms without a futex
// ABI: it backs off with a short sleep instead of parking on the control
// word directly. Correctness does not depend on timely wakeup since the
// caller always re-validates the control word after waking.
type wakeWaiter struct {
	backoff time.Duration
}

const wakeWaiterMinBackoff = 50 * time.Microsecond
const wakeWaiterMaxBackoff = 2 * time.Millisecond

func newWakeWaiter(_ *atomix.Uint32) wakeWaiter {
	return wakeWaiter{backoff: wakeWaiterMinBackoff}
}

func (w *wakeWaiter) wait(ctx context.Context, _ uint32) {
	timer := time.NewTimer(w.backoff)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-doneChan(ctx):
	}
	if w.backoff < wakeWaiterMaxBackoff {
		w.backoff *= 2
	}
}

func doneChan(ctx context.Context) <-chan struct{} {
	if ctx == nil {
		return nil
	}
	return ctx.Done()
}

// wake is a no-op on the portable backend: waiters rely on periodic
// backoff polling rather than an explicit wakeup signal.
func wake(_ *atomix.Uint32) {}
