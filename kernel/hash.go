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

package kernel

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// hashRowKey0, hashRowKey1 are fixed siphash keys for group-by bucket
// placement, distinct from the ones catalog uses for function
// signatures so the two hash spaces never collide by construction.
const (
	hashRowKey0 = 0x9ae16a3b2f90404f
	hashRowKey1 = 0xc949d7c7509e6557
)

// HashRow combines the siphash digest of a row's group-key columns
// into a single bucket hash, supporting the Aggregate operator's
// GroupKeys. cols indexes mp by the same column order the caller
// intends to group on; row must be < the shared value_count of every
// MiniPage in cols.
func HashRow(cols []*page.MiniPage, row int) uint64 {
	var buf [8]byte
	h := uint64(hashRowKey0)
	for _, mp := range cols {
		// Fold each column's digest into the running hash rather than
		// concatenating every column into one buffer first, so the
		// cost of hashing a row is linear in the number of group
		// columns without a growing intermediate allocation.
		h ^= siphash.Hash(h, hashRowKey1, cellBytes(mp, row, &buf))
	}
	return h
}

// cellBytes returns a byte view of mp's value at row, using scratch
// as backing storage for fixed-width types so no allocation occurs
// per cell. TEXT values return their own string's bytes directly,
// the same read path the TEXT comparison kernel uses.
func cellBytes(mp *page.MiniPage, row int, scratch *[8]byte) []byte {
	switch mp.Type() {
	case types.BOOL:
		if mp.ReadBool(row) {
			scratch[0] = 1
		} else {
			scratch[0] = 0
		}
		return scratch[:1]
	case types.INT1:
		scratch[0] = byte(mp.ReadI8(row))
		return scratch[:1]
	case types.INT2:
		binary.LittleEndian.PutUint16(scratch[:2], uint16(mp.ReadI16(row)))
		return scratch[:2]
	case types.INT4:
		binary.LittleEndian.PutUint32(scratch[:4], uint32(mp.ReadI32(row)))
		return scratch[:4]
	case types.INT8:
		binary.LittleEndian.PutUint64(scratch[:8], uint64(mp.ReadI64(row)))
		return scratch[:8]
	case types.FLOAT4:
		binary.LittleEndian.PutUint32(scratch[:4], floatBitsF32(mp.ReadF32(row)))
		return scratch[:4]
	case types.FLOAT8:
		binary.LittleEndian.PutUint64(scratch[:8], floatBitsF64(mp.ReadF64(row)))
		return scratch[:8]
	case types.DATE:
		binary.LittleEndian.PutUint64(scratch[:8], uint64(mp.ReadDate(row)))
		return scratch[:8]
	case types.TIME:
		binary.LittleEndian.PutUint64(scratch[:8], uint64(mp.ReadTime(row)))
		return scratch[:8]
	case types.TIMESTAMP:
		binary.LittleEndian.PutUint64(scratch[:8], uint64(mp.ReadTimestamp(row)))
		return scratch[:8]
	case types.TEXT:
		return []byte(mp.ReadText(row))
	default:
		return nil
	}
}

func floatBitsF32(f float32) uint32 { return math.Float32bits(f) }
func floatBitsF64(f float64) uint64 { return math.Float64bits(f) }
