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

package eval

import (
	"reflect"
	"testing"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/kernel"
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

func schemaAB() types.Schema {
	return types.NewSchema(
		types.Column{Name: "a", Type: types.INT4},
		types.Column{Name: "b", Type: types.INT4},
	)
}

func pageAB(rows [][2]int32) *page.Page {
	p := page.New([]types.ID{types.INT4, types.INT4})
	for i, r := range rows {
		p.Chunk(0).WriteI32(i, r[0])
		p.Chunk(1).WriteI32(i, r[1])
	}
	p.FinalizeAll()
	return p
}

// TestScenario5CompileAndFilter exercises the spec's literal scenario
// 5: compile (a + b) < 10 over schema (a:i32, b:i32); feeding rows
// {(3,4),(9,9),(0,0)} yields selection [0,2].
func TestScenario5CompileAndFilter(t *testing.T) {
	tbl := kernel.New()
	fc := NewFilterCompiler(tbl)

	pred := &expr.Comp{
		Op:  expr.OpLT,
		LHS: &expr.Arithm{Op: expr.OpAdd, LHS: &expr.Field{Name: "a"}, RHS: &expr.Field{Name: "b"}},
		RHS: &expr.Const{Value: expr.DatumInt(types.INT4, 10)},
	}

	fe, err := fc.Compile(pred)
	if err != nil {
		t.Fatal(err)
	}
	if err := fe.Bind(schemaAB()); err != nil {
		t.Fatal(err)
	}

	p := pageAB([][2]int32{{3, 4}, {9, 9}, {0, 0}})
	sel, err := fe.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 2}
	if !reflect.DeepEqual(sel, want) {
		t.Fatalf("selection = %v, want %v", sel, want)
	}
}

// TestBindIdempotence exercises P7: binding twice leaves the same
// observable state and both evaluations produce identical results.
func TestBindIdempotence(t *testing.T) {
	tbl := kernel.New()
	mc := NewMapCompiler(tbl)
	ex := &expr.Arithm{Op: expr.OpAdd, LHS: &expr.Field{Name: "a"}, RHS: &expr.Field{Name: "b"}}
	me, err := mc.Compile(ex)
	if err != nil {
		t.Fatal(err)
	}
	schema := schemaAB()
	if err := me.Bind(schema); err != nil {
		t.Fatal(err)
	}
	typ1 := me.Type()
	if err := me.Bind(schema); err != nil {
		t.Fatal(err)
	}
	typ2 := me.Type()
	if typ1 != typ2 {
		t.Fatalf("type changed across rebinding: %v vs %v", typ1, typ2)
	}

	p := pageAB([][2]int32{{1, 2}, {3, 4}})
	v, err := me.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 2 {
		t.Fatalf("result length = %d, want 2", v.Len())
	}
}

// TestUndefinedColumn exercises the UndefinedColumnError bind path.
func TestUndefinedColumn(t *testing.T) {
	tbl := kernel.New()
	mc := NewMapCompiler(tbl)
	me, err := mc.Compile(&expr.Field{Name: "missing"})
	if err != nil {
		t.Fatal(err)
	}
	err = me.Bind(schemaAB())
	if _, ok := err.(*UndefinedColumnError); !ok {
		t.Fatalf("got %v (%T), want *UndefinedColumnError", err, err)
	}
}

// TestDivByZero exercises the runtime DivByZero propagation through
// the evaluator.
func TestDivByZero(t *testing.T) {
	tbl := kernel.New()
	mc := NewMapCompiler(tbl)
	ex := &expr.Arithm{Op: expr.OpDiv, LHS: &expr.Field{Name: "a"}, RHS: &expr.Field{Name: "b"}}
	me, err := mc.Compile(ex)
	if err != nil {
		t.Fatal(err)
	}
	if err := me.Bind(schemaAB()); err != nil {
		t.Fatal(err)
	}
	p := pageAB([][2]int32{{10, 0}})
	_, err = me.Eval(p)
	if err != ErrDivByZero {
		t.Fatalf("got %v, want ErrDivByZero", err)
	}
}

// TestMultiFilterEvalIntersectsCNFPredicates feeds rows through a
// Filter-style conjunction of two independent predicates and checks
// only rows satisfying both survive, in ascending order.
func TestMultiFilterEvalIntersectsCNFPredicates(t *testing.T) {
	tbl := kernel.New()
	fc := NewFilterCompiler(tbl)

	aPositive := &expr.Comp{Op: expr.OpGT, LHS: &expr.Field{Name: "a"}, RHS: &expr.Const{Value: expr.DatumInt(types.INT4, 0)}}
	bBelowFive := &expr.Comp{Op: expr.OpLT, LHS: &expr.Field{Name: "b"}, RHS: &expr.Const{Value: expr.DatumInt(types.INT4, 5)}}

	fe1, err := fc.Compile(aPositive)
	if err != nil {
		t.Fatal(err)
	}
	fe2, err := fc.Compile(bBelowFive)
	if err != nil {
		t.Fatal(err)
	}

	m := NewMultiFilterEval(fe1, fe2)
	if err := m.Bind(schemaAB()); err != nil {
		t.Fatal(err)
	}

	// row 0: a=1>0 true,  b=4<5 true  -> kept
	// row 1: a=-1>0 false             -> dropped
	// row 2: a=2>0 true,  b=9<5 false -> dropped
	// row 3: a=3>0 true,  b=1<5 true  -> kept
	p := pageAB([][2]int32{{1, 4}, {-1, 1}, {2, 9}, {3, 1}})
	sel, err := m.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 3}
	if !reflect.DeepEqual(sel, want) {
		t.Fatalf("selection = %v, want %v", sel, want)
	}
}

// TestMixedWidthArithPromotes exercises the spec's numeric promotion
// rule end to end: an INT2 column added to an INT4 column must
// promote to INT4 and, critically, must materialize the INT2
// operand's values at INT4 width before the kernel runs. Filling a
// full RowBatchSize batch and checking the last row specifically
// exercises the regression this guards: reading an INT2 MiniPage
// through the INT4 adapter at a high row index previously ran past
// the narrower buffer.
func TestMixedWidthArithPromotes(t *testing.T) {
	schema := types.NewSchema(
		types.Column{Name: "a", Type: types.INT2},
		types.Column{Name: "b", Type: types.INT4},
	)
	p := page.New([]types.ID{types.INT2, types.INT4})
	for i := 0; i < page.RowBatchSize; i++ {
		p.Chunk(0).WriteI16(i, int16(i%100))
		p.Chunk(1).WriteI32(i, int32(i*1000))
	}
	p.FinalizeAll()

	tbl := kernel.New()
	mc := NewMapCompiler(tbl)
	ex := &expr.Arithm{Op: expr.OpAdd, LHS: &expr.Field{Name: "a"}, RHS: &expr.Field{Name: "b"}}
	me, err := mc.Compile(ex)
	if err != nil {
		t.Fatal(err)
	}
	if err := me.Bind(schema); err != nil {
		t.Fatal(err)
	}
	if me.Type() != types.INT4 {
		t.Fatalf("result type = %v, want INT4", me.Type())
	}

	v, err := me.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	last := page.RowBatchSize - 1
	av := v.(*vector.ArrayVector).MiniPage()
	want := int32(last%100) + int32(last*1000)
	if got := av.ReadI32(last); got != want {
		t.Fatalf("row %d: got %d, want %d", last, got, want)
	}
	want0 := int32(0%100) + int32(0*1000)
	if got := av.ReadI32(0); got != want0 {
		t.Fatalf("row 0: got %d, want %d", got, want0)
	}
}

// TestMixedWidthCompPromotes exercises the same promotion path for
// Comp, plus a float/int mix (FLOAT4 promotes over INT4 per the
// ranking in types.Promote).
func TestMixedWidthCompPromotes(t *testing.T) {
	schema := types.NewSchema(
		types.Column{Name: "a", Type: types.INT4},
		types.Column{Name: "b", Type: types.FLOAT4},
	)
	p := page.New([]types.ID{types.INT4, types.FLOAT4})
	p.Chunk(0).WriteI32(0, 3)
	p.Chunk(1).WriteF32(0, 4.5)
	p.Chunk(0).WriteI32(1, 5)
	p.Chunk(1).WriteF32(1, 4.5)
	p.FinalizeAll()

	tbl := kernel.New()
	fc := NewFilterCompiler(tbl)
	pred := &expr.Comp{Op: expr.OpLT, LHS: &expr.Field{Name: "a"}, RHS: &expr.Field{Name: "b"}}
	fe, err := fc.Compile(pred)
	if err != nil {
		t.Fatal(err)
	}
	if err := fe.Bind(schema); err != nil {
		t.Fatal(err)
	}
	sel, err := fe.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0}
	if !reflect.DeepEqual(sel, want) {
		t.Fatalf("selection = %v, want %v", sel, want)
	}
}

// TestMultiFilterEvalEmptyKeepsEverything exercises the degenerate
// CNF-over-zero-predicates case: every row survives.
func TestMultiFilterEvalEmptyKeepsEverything(t *testing.T) {
	m := NewMultiFilterEval()
	if err := m.Bind(schemaAB()); err != nil {
		t.Fatal(err)
	}
	p := pageAB([][2]int32{{1, 1}, {2, 2}, {3, 3}})
	sel, err := m.Eval(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 1, 2}
	if !reflect.DeepEqual(sel, want) {
		t.Fatalf("selection = %v, want %v", sel, want)
	}
}
