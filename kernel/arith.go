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
	"math"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// Fn is the uniform kernel signature: write into dst the result of
// applying this kernel's operation to lhs and rhs over either the
// dense range [0,n) (selection == nil) or exactly the positions
// named by selection.
type Fn func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, selection []uint32) error

func readI16(v vector.Vector, i int) int16 {
	if v.IsConst() {
		return int16(v.(*vector.ConstVector).Int())
	}
	return v.(*vector.ArrayVector).MiniPage().ReadI16(i)
}
func readI32(v vector.Vector, i int) int32 {
	if v.IsConst() {
		return int32(v.(*vector.ConstVector).Int())
	}
	return v.(*vector.ArrayVector).MiniPage().ReadI32(i)
}
func readI64(v vector.Vector, i int) int64 {
	if v.IsConst() {
		return v.(*vector.ConstVector).Int()
	}
	return v.(*vector.ArrayVector).MiniPage().ReadI64(i)
}
func readF32(v vector.Vector, i int) float32 {
	if v.IsConst() {
		return float32(v.(*vector.ConstVector).Float())
	}
	return v.(*vector.ArrayVector).MiniPage().ReadF32(i)
}
func readF64(v vector.Vector, i int) float64 {
	if v.IsConst() {
		return v.(*vector.ConstVector).Float()
	}
	return v.(*vector.ArrayVector).MiniPage().ReadF64(i)
}
func readDate(v vector.Vector, i int) page.Date {
	if v.IsConst() {
		return page.Date(v.(*vector.ConstVector).Int())
	}
	return v.(*vector.ArrayVector).MiniPage().ReadDate(i)
}
func readTime(v vector.Vector, i int) page.Time {
	if v.IsConst() {
		return page.Time(v.(*vector.ConstVector).Int())
	}
	return v.(*vector.ArrayVector).MiniPage().ReadTime(i)
}
func readTimestamp(v vector.Vector, i int) page.Timestamp {
	if v.IsConst() {
		return page.Timestamp(v.(*vector.ConstVector).Int())
	}
	return v.(*vector.ArrayVector).MiniPage().ReadTimestamp(i)
}

func writeI16(dst *page.MiniPage, i int, v int16) { dst.PokeI16(i, v) }
func writeI32(dst *page.MiniPage, i int, v int32) { dst.PokeI32(i, v) }
func writeI64(dst *page.MiniPage, i int, v int64) { dst.PokeI64(i, v) }
func writeF32(dst *page.MiniPage, i int, v float32) { dst.PokeF32(i, v) }
func writeF64(dst *page.MiniPage, i int, v float64) { dst.PokeF64(i, v) }
func writeDate(dst *page.MiniPage, i int, v page.Date) { dst.PokeDate(i, v) }
func writeTime(dst *page.MiniPage, i int, v page.Time) { dst.PokeTime(i, v) }
func writeTimestamp(dst *page.MiniPage, i int, v page.Timestamp) { dst.PokeTimestamp(i, v) }

// intOp builds an (a,b)->(T,error) op for a non-dividing arithmetic
// operator: addition, subtraction, multiplication wrap on overflow,
// matching Go's native signed-integer wraparound.
func intOp[T ~int16 | ~int32 | ~int64](f func(a, b T) T) func(a, b T) (T, error) {
	return func(a, b T) (T, error) { return f(a, b), nil }
}

func intDiv[T ~int16 | ~int32 | ~int64]() func(a, b T) (T, error) {
	return func(a, b T) (T, error) {
		if b == 0 {
			var zero T
			return zero, ErrDivByZero
		}
		return a / b, nil
	}
}

func intMod[T ~int16 | ~int32 | ~int64]() func(a, b T) (T, error) {
	return func(a, b T) (T, error) {
		if b == 0 {
			var zero T
			return zero, ErrDivByZero
		}
		return a % b, nil
	}
}

func floatOp[T ~float32 | ~float64](f func(a, b T) T) func(a, b T) (T, error) {
	return func(a, b T) (T, error) { return f(a, b), nil }
}

// arithmeticTypes is the closed set of types the arithmetic kernel
// table serves, per the spec: INT2, INT4, INT8, FLOAT4, FLOAT8,
// TIME, DATE, TIMESTAMP. INT1 carries the arithmetic capability flag
// at the type-catalogue level but has no registered v1 kernel.
var arithmeticTypes = []types.ID{
	types.INT2, types.INT4, types.INT8,
	types.FLOAT4, types.FLOAT8,
	types.TIME, types.DATE, types.TIMESTAMP,
}

func registerArithmetic(t *Table) {
	for _, typ := range arithmeticTypes {
		registerArithForType(t, typ)
	}
}

func registerArithForType(t *Table, typ types.ID) {
	switch typ {
	case types.INT2:
		reg := func(op ArithOp, f func(a, b int16) (int16, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel, readI16, readI16, writeI16, f)
			}
		}
		reg(OpAdd, intOp(func(a, b int16) int16 { return a + b }))
		reg(OpSub, intOp(func(a, b int16) int16 { return a - b }))
		reg(OpMul, intOp(func(a, b int16) int16 { return a * b }))
		reg(OpDiv, intDiv[int16]())
		reg(OpMod, intMod[int16]())
	case types.INT4:
		reg := func(op ArithOp, f func(a, b int32) (int32, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel, readI32, readI32, writeI32, f)
			}
		}
		reg(OpAdd, intOp(func(a, b int32) int32 { return a + b }))
		reg(OpSub, intOp(func(a, b int32) int32 { return a - b }))
		reg(OpMul, intOp(func(a, b int32) int32 { return a * b }))
		reg(OpDiv, intDiv[int32]())
		reg(OpMod, intMod[int32]())
	case types.INT8:
		reg := func(op ArithOp, f func(a, b int64) (int64, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel, readI64, readI64, writeI64, f)
			}
		}
		reg(OpAdd, intOp(func(a, b int64) int64 { return a + b }))
		reg(OpSub, intOp(func(a, b int64) int64 { return a - b }))
		reg(OpMul, intOp(func(a, b int64) int64 { return a * b }))
		reg(OpDiv, intDiv[int64]())
		reg(OpMod, intMod[int64]())
	case types.FLOAT4:
		reg := func(op ArithOp, f func(a, b float32) (float32, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel, readF32, readF32, writeF32, f)
			}
		}
		reg(OpAdd, floatOp(func(a, b float32) float32 { return a + b }))
		reg(OpSub, floatOp(func(a, b float32) float32 { return a - b }))
		reg(OpMul, floatOp(func(a, b float32) float32 { return a * b }))
		reg(OpDiv, floatOp(func(a, b float32) float32 { return a / b }))
		reg(OpMod, floatOp(func(a, b float32) float32 {
			return float32(math.Mod(float64(a), float64(b)))
		}))
	case types.FLOAT8:
		reg := func(op ArithOp, f func(a, b float64) (float64, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel, readF64, readF64, writeF64, f)
			}
		}
		reg(OpAdd, floatOp(func(a, b float64) float64 { return a + b }))
		reg(OpSub, floatOp(func(a, b float64) float64 { return a - b }))
		reg(OpMul, floatOp(func(a, b float64) float64 { return a * b }))
		reg(OpDiv, floatOp(func(a, b float64) float64 { return a / b }))
		reg(OpMod, floatOp(func(a, b float64) float64 {
			return math.Mod(a, b)
		}))
	case types.DATE:
		reg := func(op ArithOp, f func(a, b int64) (int64, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel,
					func(v vector.Vector, i int) int64 { return int64(readDate(v, i)) },
					func(v vector.Vector, i int) int64 { return int64(readDate(v, i)) },
					func(dst *page.MiniPage, i int, v int64) { writeDate(dst, i, page.Date(v)) },
					f)
			}
		}
		reg(OpAdd, intOp(func(a, b int64) int64 { return a + b }))
		reg(OpSub, intOp(func(a, b int64) int64 { return a - b }))
	case types.TIME:
		reg := func(op ArithOp, f func(a, b int64) (int64, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel,
					func(v vector.Vector, i int) int64 { return int64(readTime(v, i)) },
					func(v vector.Vector, i int) int64 { return int64(readTime(v, i)) },
					func(dst *page.MiniPage, i int, v int64) { writeTime(dst, i, page.Time(v)) },
					f)
			}
		}
		reg(OpAdd, intOp(func(a, b int64) int64 { return a + b }))
		reg(OpSub, intOp(func(a, b int64) int64 { return a - b }))
	case types.TIMESTAMP:
		reg := func(op ArithOp, f func(a, b int64) (int64, error)) {
			t.arith[arithKey{op, typ}] = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
				return binary(dst, lhs, rhs, n, sel,
					func(v vector.Vector, i int) int64 { return int64(readTimestamp(v, i)) },
					func(v vector.Vector, i int) int64 { return int64(readTimestamp(v, i)) },
					func(dst *page.MiniPage, i int, v int64) { writeTimestamp(dst, i, page.Timestamp(v)) },
					f)
			}
		}
		reg(OpAdd, intOp(func(a, b int64) int64 { return a + b }))
		reg(OpSub, intOp(func(a, b int64) int64 { return a - b }))
	}
}
