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
	"bytes"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

func readText(v vector.Vector, i int) string {
	if v.IsConst() {
		return v.(*vector.ConstVector).Text()
	}
	return v.(*vector.ArrayVector).MiniPage().ReadText(i)
}

func readBool(v vector.Vector, i int) bool {
	if v.IsConst() {
		return v.(*vector.ConstVector).Bool()
	}
	return v.(*vector.ArrayVector).MiniPage().ReadBool(i)
}

func compFn[T any](read func(vector.Vector, int) T, cmp func(a, b T) int) func(op CompOp) Fn {
	return func(op CompOp) Fn {
		return func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
			return binary(dst, lhs, rhs, n, sel, read, read,
				writeBoolResult,
				func(a, b T) (bool, error) { return applyCompOp(op, cmp(a, b)), nil })
		}
	}
}

func writeBoolResult(dst *page.MiniPage, i int, v bool) { dst.PokeBool(i, v) }

// applyCompOp maps a three-way comparison result (negative, zero,
// positive) to the boolean outcome of op.
func applyCompOp(op CompOp, c int) bool {
	switch op {
	case OpEQ:
		return c == 0
	case OpNE:
		return c != 0
	case OpLT:
		return c < 0
	case OpLE:
		return c <= 0
	case OpGT:
		return c > 0
	case OpGE:
		return c >= 0
	default:
		return false
	}
}

func cmp3[T ~int16 | ~int32 | ~int64 | ~float32 | ~float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparableTypes is every type with CapComparable: all physical
// types except... none are excluded in v1 (BOOL and TEXT included,
// per the spec's "all ordered types including TEXT").
var comparableTypes = types.All()

func registerComparison(t *Table) {
	ops := []CompOp{OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE}
	for _, typ := range comparableTypes {
		var build func(op CompOp) Fn
		switch typ {
		case types.BOOL:
			build = compFn(readBool, func(a, b bool) int {
				switch {
				case a == b:
					return 0
				case !a && b:
					return -1
				default:
					return 1
				}
			})
		case types.INT1:
			build = compFn(func(v vector.Vector, i int) int8 {
				if v.IsConst() {
					return int8(v.(*vector.ConstVector).Int())
				}
				return v.(*vector.ArrayVector).MiniPage().ReadI8(i)
			}, func(a, b int8) int {
				switch {
				case a < b:
					return -1
				case a > b:
					return 1
				default:
					return 0
				}
			})
		case types.INT2:
			build = compFn(readI16, cmp3[int16])
		case types.INT4:
			build = compFn(readI32, cmp3[int32])
		case types.INT8:
			build = compFn(readI64, cmp3[int64])
		case types.FLOAT4:
			build = compFn(readF32, cmp3[float32])
		case types.FLOAT8:
			build = compFn(readF64, cmp3[float64])
		case types.DATE:
			build = compFn(func(v vector.Vector, i int) int64 { return int64(readDate(v, i)) }, cmp3[int64])
		case types.TIME:
			build = compFn(func(v vector.Vector, i int) int64 { return int64(readTime(v, i)) }, cmp3[int64])
		case types.TIMESTAMP:
			build = compFn(func(v vector.Vector, i int) int64 { return int64(readTimestamp(v, i)) }, cmp3[int64])
		case types.TEXT:
			build = compFn(readText, func(a, b string) int { return bytes.Compare([]byte(a), []byte(b)) })
		default:
			continue
		}
		for _, op := range ops {
			t.comp[compKey{op, typ}] = build(op)
		}
	}
}
