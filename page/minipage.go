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

// Package page implements the cache-aligned columnar batch storage
// (MiniPage) and the row-batch container (Page) that sits on top of
// it.
package page

import (
	"fmt"
	"unsafe"

	"github.com/vectorql/vq/align"
	"github.com/vectorql/vq/types"
)

// RowBatchSize is the fixed number of rows (ROWBATCH_SIZE) every
// MiniPage and Page in this engine is sized for.
const RowBatchSize = 1024

// Alignment is the byte boundary every MiniPage buffer is allocated
// on, chosen to accommodate 128-bit SIMD loads/stores.
const Alignment = 16

// MiniPage is a single-column, fixed-capacity batch buffer. Its
// backing storage is aligned to Alignment and sized for exactly
// RowBatchSize elements of its type. A MiniPage must outlive any
// Vector that borrows from it.
type MiniPage struct {
	typ    types.ID
	width  int
	raw    []byte // over-allocated backing array
	buf    []byte // aligned, exactly align.Up(width*RowBatchSize, Alignment) bytes
	arena  *arena // non-nil only for TEXT
	cursor int    // next write position
	count  int    // published value count, set by Finalize
}

// NewMiniPage allocates an empty, aligned MiniPage for the given
// physical type.
func NewMiniPage(t types.ID) *MiniPage {
	if !t.Valid() {
		panic(fmt.Sprintf("page: invalid type id %d", t))
	}
	w := t.Width()
	size := align.Up(w*RowBatchSize, Alignment)
	raw := make([]byte, size+Alignment)
	buf := alignSlice(raw, size)
	mp := &MiniPage{typ: t, width: w, raw: raw, buf: buf}
	if t == types.TEXT {
		mp.arena = &arena{}
	}
	return mp
}

// alignSlice returns the sub-slice of raw of length size whose base
// address is a multiple of Alignment. raw must have at least
// size+Alignment-1 spare bytes.
func alignSlice(raw []byte, size int) []byte {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	aligned := align.Up(base, uintptr(Alignment))
	off := int(aligned - base)
	return raw[off : off+size : off+size]
}

// Type returns the MiniPage's physical type.
func (mp *MiniPage) Type() types.ID { return mp.typ }

// ValueCount returns the last value count published by Finalize.
func (mp *MiniPage) ValueCount() int { return mp.count }

// Cursor returns the current write position.
func (mp *MiniPage) Cursor() int { return mp.cursor }

// Reset sets the write cursor back to zero and discards (but does
// not free) any TEXT arena contents. It does not change ValueCount;
// call Finalize to publish the new count once writing is complete.
func (mp *MiniPage) Reset() {
	mp.cursor = 0
	if mp.arena != nil {
		mp.arena.reset()
	}
}

// Finalize publishes the current write cursor as the value count.
func (mp *MiniPage) Finalize() {
	mp.count = mp.cursor
}

// ByteSize returns the allocated byte length of the MiniPage's fixed
// buffer, plus any live TEXT arena bytes.
func (mp *MiniPage) ByteSize() int {
	n := len(mp.buf)
	if mp.arena != nil {
		n += mp.arena.byteSize()
	}
	return n
}

// Aligned reports whether the MiniPage's buffer satisfies the
// alignment invariant; used by tests (property P2).
func (mp *MiniPage) Aligned() bool {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(mp.buf)))
	return align.IsAligned(base, uintptr(Alignment)) &&
		align.IsAligned(uintptr(len(mp.buf)), uintptr(Alignment))
}

// Copy produces an owned duplicate of the MiniPage, never a view.
func (mp *MiniPage) Copy() *MiniPage {
	out := NewMiniPage(mp.typ)
	copyBytes(out.buf, mp.buf)
	out.cursor = mp.cursor
	out.count = mp.count
	if mp.arena != nil {
		out.arena = mp.arena.copy()
	}
	return out
}

func readAt[T any](mp *MiniPage, pos int) T {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	return *(*T)(unsafe.Pointer(&mp.buf[pos*sz]))
}

func writeAt[T any](mp *MiniPage, pos int, v T) {
	if pos != mp.cursor {
		panic(fmt.Sprintf("page: out-of-order write at %d, cursor is %d", pos, mp.cursor))
	}
	sz := int(unsafe.Sizeof(v))
	*(*T)(unsafe.Pointer(&mp.buf[pos*sz])) = v
	mp.cursor++
}

// pokeAt writes v directly at pos, bypassing the cursor-advance
// invariant writeAt enforces. It backs the kernel package's result
// writers, which address a selection's positions directly and may
// do so out of order or non-contiguously; the producer-facing
// Write<T> contract (sequential, cursor-checked) does not apply to a
// kernel's private result buffer.
func pokeAt[T any](mp *MiniPage, pos int, v T) {
	sz := int(unsafe.Sizeof(v))
	*(*T)(unsafe.Pointer(&mp.buf[pos*sz])) = v
}

// ReadBool reads the value written at pos. pos must be < ValueCount().
func (mp *MiniPage) ReadBool(pos int) bool { return readAt[bool](mp, pos) }

// WriteBool writes v at pos, which must equal the current cursor.
func (mp *MiniPage) WriteBool(pos int, v bool) { writeAt(mp, pos, v) }

// ReadI8 reads an INT1 value.
func (mp *MiniPage) ReadI8(pos int) int8 { return readAt[int8](mp, pos) }

// WriteI8 writes an INT1 value.
func (mp *MiniPage) WriteI8(pos int, v int8) { writeAt(mp, pos, v) }

// ReadI16 reads an INT2 value.
func (mp *MiniPage) ReadI16(pos int) int16 { return readAt[int16](mp, pos) }

// WriteI16 writes an INT2 value.
func (mp *MiniPage) WriteI16(pos int, v int16) { writeAt(mp, pos, v) }

// ReadI32 reads an INT4 value.
func (mp *MiniPage) ReadI32(pos int) int32 { return readAt[int32](mp, pos) }

// WriteI32 writes an INT4 value.
func (mp *MiniPage) WriteI32(pos int, v int32) { writeAt(mp, pos, v) }

// ReadI64 reads an INT8 value.
func (mp *MiniPage) ReadI64(pos int) int64 { return readAt[int64](mp, pos) }

// WriteI64 writes an INT8 value.
func (mp *MiniPage) WriteI64(pos int, v int64) { writeAt(mp, pos, v) }

// ReadF32 reads a FLOAT4 value.
func (mp *MiniPage) ReadF32(pos int) float32 { return readAt[float32](mp, pos) }

// WriteF32 writes a FLOAT4 value.
func (mp *MiniPage) WriteF32(pos int, v float32) { writeAt(mp, pos, v) }

// ReadF64 reads a FLOAT8 value.
func (mp *MiniPage) ReadF64(pos int) float64 { return readAt[float64](mp, pos) }

// WriteF64 writes a FLOAT8 value.
func (mp *MiniPage) WriteF64(pos int, v float64) { writeAt(mp, pos, v) }

// ReadDate reads a DATE value.
func (mp *MiniPage) ReadDate(pos int) Date { return readAt[Date](mp, pos) }

// WriteDate writes a DATE value.
func (mp *MiniPage) WriteDate(pos int, v Date) { writeAt(mp, pos, v) }

// ReadTime reads a TIME value.
func (mp *MiniPage) ReadTime(pos int) Time { return readAt[Time](mp, pos) }

// WriteTime writes a TIME value.
func (mp *MiniPage) WriteTime(pos int, v Time) { writeAt(mp, pos, v) }

// ReadTimestamp reads a TIMESTAMP value.
func (mp *MiniPage) ReadTimestamp(pos int) Timestamp { return readAt[Timestamp](mp, pos) }

// WriteTimestamp writes a TIMESTAMP value.
func (mp *MiniPage) WriteTimestamp(pos int, v Timestamp) { writeAt(mp, pos, v) }

// textDescriptor is the 16-byte inline (arena offset, length) pair a
// TEXT MiniPage stores per row.
type textDescriptor struct {
	off uint64
	len uint64
}

// ReadText reads a TEXT value, copying it out of the arena.
func (mp *MiniPage) ReadText(pos int) string {
	d := readAt[textDescriptor](mp, pos)
	return string(mp.arena.slice(d.off, d.len))
}

// WriteText appends s to the MiniPage's arena and writes its
// descriptor at pos, which must equal the current cursor.
func (mp *MiniPage) WriteText(pos int, s string) {
	off, length := mp.arena.alloc([]byte(s))
	writeAt(mp, pos, textDescriptor{off: off, len: length})
}

// SetCount publishes n directly as the MiniPage's value count,
// without requiring that n values were written through the
// sequential Write<T> cursor. It is how a kernel's evaluator-owned
// result MiniPage is published after a kernel has poked a selection
// of positions rather than appended a dense run.
func (mp *MiniPage) SetCount(n int) {
	if n < 0 || n > RowBatchSize {
		panic(fmt.Sprintf("page: value count %d out of range [0,%d]", n, RowBatchSize))
	}
	mp.count = n
	mp.cursor = n
}

// PokeBool writes v at pos directly, independent of the write
// cursor. See pokeAt.
func (mp *MiniPage) PokeBool(pos int, v bool) { pokeAt(mp, pos, v) }

// PokeI16 writes an INT2 value directly at pos.
func (mp *MiniPage) PokeI16(pos int, v int16) { pokeAt(mp, pos, v) }

// PokeI32 writes an INT4 value directly at pos.
func (mp *MiniPage) PokeI32(pos int, v int32) { pokeAt(mp, pos, v) }

// PokeI64 writes an INT8 value directly at pos.
func (mp *MiniPage) PokeI64(pos int, v int64) { pokeAt(mp, pos, v) }

// PokeF32 writes a FLOAT4 value directly at pos.
func (mp *MiniPage) PokeF32(pos int, v float32) { pokeAt(mp, pos, v) }

// PokeF64 writes a FLOAT8 value directly at pos.
func (mp *MiniPage) PokeF64(pos int, v float64) { pokeAt(mp, pos, v) }

// PokeDate writes a DATE value directly at pos.
func (mp *MiniPage) PokeDate(pos int, v Date) { pokeAt(mp, pos, v) }

// PokeTime writes a TIME value directly at pos.
func (mp *MiniPage) PokeTime(pos int, v Time) { pokeAt(mp, pos, v) }

// PokeTimestamp writes a TIMESTAMP value directly at pos.
func (mp *MiniPage) PokeTimestamp(pos int, v Timestamp) { pokeAt(mp, pos, v) }

// PokeText writes s into the arena and pokes its descriptor directly
// at pos. Re-poking the same position leaks the previously allocated
// arena bytes until the next Reset; this is acceptable since a
// result MiniPage's arena is reset once per evaluation, same as any
// producer page's.
func (mp *MiniPage) PokeText(pos int, s string) {
	off, length := mp.arena.alloc([]byte(s))
	pokeAt(mp, pos, textDescriptor{off: off, len: length})
}
