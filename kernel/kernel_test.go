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
	"testing"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// TestArithVVMatchesScalar exercises property P5 for the
// vector-vector constness combination: the kernel's output equals
// the element-wise scalar application.
func TestArithVVMatchesScalar(t *testing.T) {
	tbl := New()
	fn, ok := tbl.Arith(OpAdd, types.INT4)
	if !ok {
		t.Fatal("expected INT4 add kernel to be registered")
	}

	lhsMp := page.NewMiniPage(types.INT4)
	rhsMp := page.NewMiniPage(types.INT4)
	want := make([]int32, 5)
	for i := 0; i < 5; i++ {
		lhsMp.WriteI32(i, int32(i))
		rhsMp.WriteI32(i, int32(i*10))
		want[i] = int32(i) + int32(i*10)
	}
	lhsMp.Finalize()
	rhsMp.Finalize()

	dst := page.NewMiniPage(types.INT4)
	lhs := vector.NewArray(lhsMp, 5)
	rhs := vector.NewArray(rhsMp, 5)
	if err := fn(dst, lhs, rhs, 5, nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if got := dst.ReadI32(i); got != want[i] {
			t.Errorf("pos %d: got %d, want %d", i, got, want[i])
		}
	}
}

// TestArithVCAndCV exercises the VC and CV constness combinations.
func TestArithVCAndCV(t *testing.T) {
	tbl := New()
	fn, _ := tbl.Arith(OpMul, types.INT4)

	lhsMp := page.NewMiniPage(types.INT4)
	for i := 0; i < 3; i++ {
		lhsMp.WriteI32(i, int32(i+1))
	}
	lhsMp.Finalize()
	lhs := vector.NewArray(lhsMp, 3)
	rhsConst := vector.NewConstInt(types.INT4, 4)

	dst := page.NewMiniPage(types.INT4)
	if err := fn(dst, lhs, rhsConst, 3, nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		want := int32(i+1) * 4
		if got := dst.ReadI32(i); got != want {
			t.Errorf("VC pos %d: got %d, want %d", i, got, want)
		}
	}

	dst2 := page.NewMiniPage(types.INT4)
	if err := fn(dst2, rhsConst, lhs, 3, nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		want := int32(i+1) * 4
		if got := dst2.ReadI32(i); got != want {
			t.Errorf("CV pos %d: got %d, want %d", i, got, want)
		}
	}
}

// TestIntDivByZero exercises the DivByZero error path.
func TestIntDivByZero(t *testing.T) {
	tbl := New()
	fn, _ := tbl.Arith(OpDiv, types.INT4)

	lhsMp := page.NewMiniPage(types.INT4)
	lhsMp.WriteI32(0, 10)
	lhsMp.Finalize()
	rhsMp := page.NewMiniPage(types.INT4)
	rhsMp.WriteI32(0, 0)
	rhsMp.Finalize()

	dst := page.NewMiniPage(types.INT4)
	err := fn(dst, vector.NewArray(lhsMp, 1), vector.NewArray(rhsMp, 1), 1, nil)
	if err != ErrDivByZero {
		t.Fatalf("got %v, want ErrDivByZero", err)
	}
}

// TestSelectionHonoured verifies a kernel given a selection only
// writes the listed positions, leaving others untouched.
func TestSelectionHonoured(t *testing.T) {
	tbl := New()
	fn, _ := tbl.Arith(OpAdd, types.INT4)

	lhsMp := page.NewMiniPage(types.INT4)
	rhsMp := page.NewMiniPage(types.INT4)
	for i := 0; i < 4; i++ {
		lhsMp.WriteI32(i, int32(i))
		rhsMp.WriteI32(i, 1)
	}
	lhsMp.Finalize()
	rhsMp.Finalize()

	dst := page.NewMiniPage(types.INT4)
	for i := 0; i < 4; i++ {
		dst.WriteI32(i, -1) // sentinel
	}
	dst.Finalize()
	sel := []uint32{1, 3}
	if err := fn(dst, vector.NewArray(lhsMp, 4), vector.NewArray(rhsMp, 4), 4, sel); err != nil {
		t.Fatal(err)
	}
	if dst.ReadI32(0) != -1 {
		t.Errorf("position 0 should be untouched, got %d", dst.ReadI32(0))
	}
	if dst.ReadI32(1) != 2 {
		t.Errorf("position 1 = %d, want 2", dst.ReadI32(1))
	}
	if dst.ReadI32(2) != -1 {
		t.Errorf("position 2 should be untouched, got %d", dst.ReadI32(2))
	}
	if dst.ReadI32(3) != 4 {
		t.Errorf("position 3 = %d, want 4", dst.ReadI32(3))
	}
}

// TestCompText exercises lexicographic byte-order TEXT comparison.
func TestCompText(t *testing.T) {
	tbl := New()
	fn, ok := tbl.Comp(OpLT, types.TEXT)
	if !ok {
		t.Fatal("expected TEXT < kernel")
	}
	lhsMp := page.NewMiniPage(types.TEXT)
	rhsMp := page.NewMiniPage(types.TEXT)
	lhsMp.WriteText(0, "apple")
	rhsMp.WriteText(0, "banana")
	lhsMp.Finalize()
	rhsMp.Finalize()

	dst := page.NewMiniPage(types.BOOL)
	if err := fn(dst, vector.NewArray(lhsMp, 1), vector.NewArray(rhsMp, 1), 1, nil); err != nil {
		t.Fatal(err)
	}
	if !dst.ReadBool(0) {
		t.Error("expected apple < banana")
	}
}

// TestBooleanStrictness exercises the AND/OR/NOT kernels.
func TestBooleanStrictness(t *testing.T) {
	tbl := New()
	lhsMp := page.NewMiniPage(types.BOOL)
	rhsMp := page.NewMiniPage(types.BOOL)
	lhsMp.WriteBool(0, true)
	lhsMp.WriteBool(1, false)
	rhsMp.WriteBool(0, false)
	rhsMp.WriteBool(1, false)
	lhsMp.Finalize()
	rhsMp.Finalize()

	dst := page.NewMiniPage(types.BOOL)
	if err := tbl.And()(dst, vector.NewArray(lhsMp, 2), vector.NewArray(rhsMp, 2), 2, nil); err != nil {
		t.Fatal(err)
	}
	if dst.ReadBool(0) != false || dst.ReadBool(1) != false {
		t.Errorf("AND mismatch: got (%v,%v)", dst.ReadBool(0), dst.ReadBool(1))
	}

	dstOr := page.NewMiniPage(types.BOOL)
	if err := tbl.Or()(dstOr, vector.NewArray(lhsMp, 2), vector.NewArray(rhsMp, 2), 2, nil); err != nil {
		t.Fatal(err)
	}
	if dstOr.ReadBool(0) != true || dstOr.ReadBool(1) != false {
		t.Errorf("OR mismatch: got (%v,%v)", dstOr.ReadBool(0), dstOr.ReadBool(1))
	}

	dstNot := page.NewMiniPage(types.BOOL)
	if err := tbl.Not()(dstNot, vector.NewArray(lhsMp, 2), 2, nil); err != nil {
		t.Fatal(err)
	}
	if dstNot.ReadBool(0) != false || dstNot.ReadBool(1) != true {
		t.Errorf("NOT mismatch: got (%v,%v)", dstNot.ReadBool(0), dstNot.ReadBool(1))
	}
}

// TestHashRowStableAndDiscriminating checks that HashRow is a
// deterministic function of the group-key columns it's given, and
// that changing a key value changes the hash (no accidental
// collapsing of distinct rows into one bucket in this small sample).
func TestHashRowStableAndDiscriminating(t *testing.T) {
	a := page.NewMiniPage(types.INT4)
	b := page.NewMiniPage(types.TEXT)
	a.WriteI32(0, 7)
	a.WriteI32(1, 7)
	a.WriteI32(2, 8)
	b.WriteText(0, "x")
	b.WriteText(1, "y")
	b.WriteText(2, "x")
	a.Finalize()
	b.Finalize()

	cols := []*page.MiniPage{a, b}
	h0 := HashRow(cols, 0)
	h0Again := HashRow(cols, 0)
	if h0 != h0Again {
		t.Fatalf("HashRow is not deterministic: %d != %d", h0, h0Again)
	}

	h1 := HashRow(cols, 1)
	h2 := HashRow(cols, 2)
	if h0 == h1 {
		t.Errorf("rows (7,x) and (7,y) hashed identically: %d", h0)
	}
	if h0 == h2 {
		t.Errorf("rows (7,x) and (8,x) hashed identically: %d", h0)
	}
}
