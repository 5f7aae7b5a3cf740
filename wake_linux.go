// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package qsdr

import (
	"context"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"code.hybscloud.com/atomix"
)

// wakeWaiter parks a blocking consumer on the channel's own control word via
// FUTEX_WAIT_PRIVATE, waking on a matching FUTEX_WAKE_PRIVATE from the
// producer side. expected is the control word value observed right before
// sleeping; if it has already changed the syscall returns immediately
// instead of sleeping.
type wakeWaiter struct {
	addr *uint32
}

func newWakeWaiter(word *atomix.Uint32) wakeWaiter {
	return wakeWaiter{addr: (*uint32)(unsafe.Pointer(word))}
}

// futexWaitTimeout bounds each FUTEX_WAIT syscall so a blocking receiver can
// still observe ctx cancellation without a dedicated waker thread.
const futexWaitTimeout = 50 * time.Millisecond

func (w wakeWaiter) wait(ctx context.Context, expected uint32) {
	ts := unix.NsecToTimespec(futexWaitTimeout.Nanoseconds())
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(w.addr)),
		uintptr(unix.FUTEX_WAIT_PRIVATE), uintptr(expected),
		uintptr(unsafe.Pointer(&ts)), 0, 0)
	_ = ctx
}

func wake(word *atomix.Uint32) {
	addr := (*uint32)(unsafe.Pointer(word))
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)),
		uintptr(unix.FUTEX_WAKE_PRIVATE), uintptr(1), 0, 0, 0)
}
