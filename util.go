// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

// cacheLineSize is the target cache line size used for padding shared
// channel control words, preventing false sharing between producer-owned
// and consumer-owned fields.
const cacheLineSize = 64

// pad is cache line padding to prevent false sharing.
type pad [cacheLineSize]byte

// padShort is a smaller pad used between adjacent per-slot fields (e.g. MPSC
// ring slots) where a full cache line per slot would waste too much memory.
type padShort [24]byte

// roundToPow2 rounds n up to the next power of 2. Panics if n < 2.
func roundToPow2(n int) int {
	if n < 2 {
		panic("qsdr: capacity must be >= 2")
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
