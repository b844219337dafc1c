// Copyright (C) 2024 VectorQL, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package page

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// wideCopy records, once at process start, whether the host CPU can
// service a widened (8-byte-stride) bulk-copy path for MiniPage.Copy
// and arena copies.
var wideCopy = detectWideCopy()

// wideCopyEnabled additionally gates wideCopy behind configuration;
// config.EngineConfig.EnableWideCopy flows into it via
// SetWideCopyEnabled. Defaults to true so a MiniPage allocated before
// any config is loaded still takes the fast path on capable hosts.
var wideCopyEnabled = true

// wideCopyMinLen is the shortest region worth the wider stride; below
// it the loop overhead isn't paid back.
const wideCopyMinLen = 64

func detectWideCopy() bool {
	switch {
	case cpu.X86.HasAVX2:
		return true
	case cpu.ARM64.HasASIMD:
		return true
	default:
		return false
	}
}

// WideCopySupported reports whether the host qualifies for the
// widened copy path, independent of whether it's currently enabled.
// config.EngineConfig.Validate does not consult it.
func WideCopySupported() bool { return wideCopy }

// SetWideCopyEnabled toggles whether MiniPage.Copy and arena copies
// may use the widened path on a host that supports it.
// config.Load calls this once at startup per
// EngineConfig.EnableWideCopy; it has no effect on a host that fails
// WideCopySupported.
func SetWideCopyEnabled(v bool) { wideCopyEnabled = v }

// copyBytes copies src into dst, taking the widened 8-byte-stride
// path when the host supports it, the path is enabled, and the
// region is large enough to amortize it; otherwise it falls back to
// the standard library's copy.
func copyBytes(dst, src []byte) int {
	if !wideCopy || !wideCopyEnabled || len(src) < wideCopyMinLen {
		return copy(dst, src)
	}
	return wideCopyBytes(dst, src)
}

// wideCopyBytes copies 8 bytes per iteration instead of copy's
// byte-granular loop, then finishes any remainder with copy.
func wideCopyBytes(dst, src []byte) int {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	words := n / 8
	for i := 0; i < words; i++ {
		off := i * 8
		*(*uint64)(unsafe.Pointer(&dst[off])) = *(*uint64)(unsafe.Pointer(&src[off]))
	}
	copy(dst[words*8:n], src[words*8:n])
	return n
}
