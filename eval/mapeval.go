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
	"github.com/vectorql/vq/kernel"
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// MapEval is a bound expression evaluator that produces a Vector of
// the same length as the page it is evaluated against. Implementers
// own any scratch storage needed to hold their result and reuse it
// across calls to Eval, per the lifecycle rule that a compiled
// evaluator's result persists (and is reset) per evaluation rather
// than being reallocated.
type MapEval interface {
	// Bind resolves schema references and kernel pointers. It may be
	// called more than once on the same evaluator (P7): each call
	// re-derives the same state from scratch rather than mutating
	// incrementally, so repeated binding against the same schema
	// leaves the evaluator in an identical state.
	Bind(schema types.Schema) error
	// Eval evaluates the bound expression against p, returning a
	// Vector borrowed from (Field) or owned by (everything else) this
	// evaluator. The returned Vector is invalidated by the next call
	// to Eval on this evaluator, or by the next call to the input
	// page's producer.
	Eval(p *page.Page) (vector.Vector, error)
	// Type returns the physical type Eval's result carries. It is
	// only meaningful after a successful Bind.
	Type() types.ID
}

// fieldEval evaluates expr.Field: a zero-copy borrow of one of the
// input page's chunks.
type fieldEval struct {
	name  string
	idx   int
	typ   types.ID
	bound bool
}

func newFieldEval(name string) *fieldEval { return &fieldEval{name: name} }

func (f *fieldEval) Bind(schema types.Schema) error {
	idx, ok := schema.Lookup(f.name)
	if !ok {
		return &UndefinedColumnError{Name: f.name}
	}
	f.idx = idx
	f.typ = schema.Columns[idx].Type
	f.bound = true
	return nil
}

func (f *fieldEval) Eval(p *page.Page) (vector.Vector, error) {
	if !f.bound {
		return nil, ErrNotBound
	}
	return vector.NewArray(p.Chunk(f.idx), p.ValueCount()), nil
}

func (f *fieldEval) Type() types.ID { return f.typ }

// constEval evaluates expr.Const: an owned ConstVector, built once
// at construction since it needs no schema to resolve.
type constEval struct {
	v     *vector.ConstVector
	bound bool
}

func newConstEval(v *vector.ConstVector) *constEval { return &constEval{v: v} }

func (c *constEval) Bind(types.Schema) error {
	c.bound = true
	return nil
}

func (c *constEval) Eval(*page.Page) (vector.Vector, error) {
	if !c.bound {
		return nil, ErrNotBound
	}
	return c.v, nil
}

func (c *constEval) Type() types.ID { return c.v.Type() }

// binaryEval is shared scaffolding for Arithm and Comp: both bind two
// children, resolve one kernel function, and write into an owned
// result MiniPage sized for a full batch.
//
// The kernel a binaryEval resolves is keyed on a single operand type
// (operandT): for Arithm that is the result type itself, for Comp
// it's the common type both sides are compared at. When an operand's
// own type differs from operandT (e.g. INT2 promoted against INT4),
// its ArrayVector values are materialized into a scratch MiniPage at
// operandT before the kernel runs — the kernel's read adapter indexes
// its source by operandT's width, so a narrower MiniPage handed to it
// directly is read out of step (garbage values, or an out-of-bounds
// read once pos*width exceeds the narrower buffer). A ConstVector
// operand needs no scratch page: between integer widths its Int()
// accessor already returns the widened value, and an integer constant
// promoted to a float type is converted to a float ConstVector.
type binaryEval struct {
	lhs, rhs MapEval
	resolve  func(lt, rt types.ID) (operandT, resultT types.ID, fn kernel.Fn, err error)
	operandT types.ID
	resultT  types.ID
	fn       kernel.Fn
	result   *page.MiniPage
	lhsFrom  types.ID
	rhsFrom  types.ID
	lhsCast  *page.MiniPage // non-nil only when lhsFrom != operandT
	rhsCast  *page.MiniPage // non-nil only when rhsFrom != operandT
	bound    bool
}

func (b *binaryEval) Bind(schema types.Schema) error {
	if err := b.lhs.Bind(schema); err != nil {
		return err
	}
	if err := b.rhs.Bind(schema); err != nil {
		return err
	}
	lt, rt := b.lhs.Type(), b.rhs.Type()
	operandT, resultT, fn, err := b.resolve(lt, rt)
	if err != nil {
		return err
	}
	// Two constant operands (CC) have no kernel variant; such a node
	// must be folded before it reaches the evaluator.
	_, lc := b.lhs.(*constEval)
	_, rc := b.rhs.(*constEval)
	if lc && rc {
		return &UnsupportedKernelError{Op: "CC", Lhs: lt, Rhs: rt}
	}
	b.operandT = operandT
	b.resultT = resultT
	b.fn = fn
	b.result = page.NewMiniPage(resultT)
	b.lhsFrom, b.rhsFrom = lt, rt
	b.lhsCast, b.rhsCast = nil, nil
	if lt != operandT {
		b.lhsCast = page.NewMiniPage(operandT)
	}
	if rt != operandT {
		b.rhsCast = page.NewMiniPage(operandT)
	}
	b.bound = true
	return nil
}

func (b *binaryEval) Eval(p *page.Page) (vector.Vector, error) {
	if !b.bound {
		return nil, ErrNotBound
	}
	lv, err := b.lhs.Eval(p)
	if err != nil {
		return nil, err
	}
	rv, err := b.rhs.Eval(p)
	if err != nil {
		return nil, err
	}
	n := p.ValueCount()
	lv = widenOperand(lv, b.lhsFrom, b.operandT, b.lhsCast, n)
	rv = widenOperand(rv, b.rhsFrom, b.operandT, b.rhsCast, n)
	if err := b.fn(b.result, lv, rv, n, nil); err != nil {
		return nil, err
	}
	b.result.SetCount(n)
	return vector.NewArray(b.result, n), nil
}

func (b *binaryEval) Type() types.ID { return b.resultT }

// widenOperand returns v unchanged when no cast is needed (same type,
// integer constant widened to an integer type, float constant, or no
// scratch allocated), converts an integer constant promoted to a float
// type into a float ConstVector, and otherwise materializes v's first
// n values into scratch at the promoted type to and returns an
// ArrayVector over it.
func widenOperand(v vector.Vector, from, to types.ID, scratch *page.MiniPage, n int) vector.Vector {
	if from == to {
		return v
	}
	if c, ok := v.(*vector.ConstVector); ok {
		if (to == types.FLOAT4 || to == types.FLOAT8) && from != types.FLOAT4 && from != types.FLOAT8 {
			return vector.NewConstFloat64(float64(c.Int()))
		}
		return v
	}
	if scratch == nil {
		return v
	}
	widenInto(scratch, v.(*vector.ArrayVector).MiniPage(), from, n)
	return vector.NewArray(scratch, n)
}

// widenInto casts src's first n values (physical type from) into dst
// (whose type is the promotion target) via dst's own Write<T> cursor,
// so repeated calls across successive Eval invocations simply
// overwrite the same scratch buffer from position zero.
func widenInto(dst, src *page.MiniPage, from types.ID, n int) {
	dst.Reset()
	for i := 0; i < n; i++ {
		switch from {
		case types.INT1:
			writeWidenedInt(dst, i, int64(src.ReadI8(i)))
		case types.INT2:
			writeWidenedInt(dst, i, int64(src.ReadI16(i)))
		case types.INT4:
			writeWidenedInt(dst, i, int64(src.ReadI32(i)))
		case types.INT8:
			writeWidenedInt(dst, i, src.ReadI64(i))
		case types.FLOAT4:
			writeWidenedFloat(dst, i, float64(src.ReadF32(i)))
		}
	}
	dst.Finalize()
}

func writeWidenedInt(dst *page.MiniPage, i int, v int64) {
	switch dst.Type() {
	case types.INT2:
		dst.WriteI16(i, int16(v))
	case types.INT4:
		dst.WriteI32(i, int32(v))
	case types.INT8:
		dst.WriteI64(i, v)
	case types.FLOAT4:
		dst.WriteF32(i, float32(v))
	case types.FLOAT8:
		dst.WriteF64(i, float64(v))
	}
}

func writeWidenedFloat(dst *page.MiniPage, i int, v float64) {
	switch dst.Type() {
	case types.FLOAT8:
		dst.WriteF64(i, v)
	case types.FLOAT4:
		dst.WriteF32(i, float32(v))
	}
}

// newArithEval builds the binaryEval scaffolding for an Arithm node.
func newArithEval(op kernel.ArithOp, lhs, rhs MapEval, tbl *kernel.Table) *binaryEval {
	return &binaryEval{
		lhs: lhs,
		rhs: rhs,
		resolve: func(lt, rt types.ID) (types.ID, types.ID, kernel.Fn, error) {
			if !lt.Has(types.CapArithmetic) || !rt.Has(types.CapArithmetic) {
				return 0, 0, nil, &TypeMismatchError{At: "Arithm", Lhs: lt, Rhs: rt}
			}
			resultT, ok := types.Promote(lt, rt)
			if !ok {
				return 0, 0, nil, &TypeMismatchError{At: "Arithm", Lhs: lt, Rhs: rt}
			}
			fn, ok := tbl.Arith(op, resultT)
			if !ok {
				return 0, 0, nil, &UnsupportedKernelError{Op: "Arithm", Lhs: lt, Rhs: rt}
			}
			return resultT, resultT, fn, nil
		},
	}
}

// newCompEval builds the binaryEval scaffolding for a Comp node. The
// result type is always BOOL; the kernel is keyed on the promoted
// operand type, which both operands are cast to before it runs.
func newCompEval(op kernel.CompOp, lhs, rhs MapEval, tbl *kernel.Table) *binaryEval {
	return &binaryEval{
		lhs: lhs,
		rhs: rhs,
		resolve: func(lt, rt types.ID) (types.ID, types.ID, kernel.Fn, error) {
			operandT := lt
			if lt != rt {
				promoted, ok := types.Promote(lt, rt)
				if !ok {
					return 0, 0, nil, &TypeMismatchError{At: "Comp", Lhs: lt, Rhs: rt}
				}
				operandT = promoted
			}
			fn, ok := tbl.Comp(op, operandT)
			if !ok {
				return 0, 0, nil, &UnsupportedKernelError{Op: "Comp", Lhs: lt, Rhs: rt}
			}
			return operandT, types.BOOL, fn, nil
		},
	}
}

// boolEval evaluates expr.Bool: a strict, left-to-right fold of AND
// or OR over two or more BOOL children, or a single-child NOT.
type boolEval struct {
	isNot    bool
	children []MapEval
	tbl      *kernel.Table
	andOr    kernel.Fn
	not      kernel.UnaryFn
	result   *page.MiniPage
	bound    bool
}

func newBoolEval(isAnd, isNot bool, children []MapEval, tbl *kernel.Table) *boolEval {
	b := &boolEval{isNot: isNot, children: children, tbl: tbl}
	if !isNot {
		if isAnd {
			b.andOr = tbl.And()
		} else {
			b.andOr = tbl.Or()
		}
	} else {
		b.not = tbl.Not()
	}
	return b
}

func (b *boolEval) Bind(schema types.Schema) error {
	for _, c := range b.children {
		if err := c.Bind(schema); err != nil {
			return err
		}
		if c.Type() != types.BOOL {
			return &TypeMismatchError{At: "Bool", Lhs: types.BOOL, Rhs: c.Type()}
		}
	}
	b.result = page.NewMiniPage(types.BOOL)
	b.bound = true
	return nil
}

func (b *boolEval) Eval(p *page.Page) (vector.Vector, error) {
	if !b.bound {
		return nil, ErrNotBound
	}
	n := p.ValueCount()
	if b.isNot {
		v, err := b.children[0].Eval(p)
		if err != nil {
			return nil, err
		}
		if err := b.not(b.result, v, n, nil); err != nil {
			return nil, err
		}
		b.result.SetCount(n)
		return vector.NewArray(b.result, n), nil
	}

	acc, err := b.children[0].Eval(p)
	if err != nil {
		return nil, err
	}
	for _, c := range b.children[1:] {
		v, err := c.Eval(p)
		if err != nil {
			return nil, err
		}
		if err := b.andOr(b.result, acc, v, n, nil); err != nil {
			return nil, err
		}
		b.result.SetCount(n)
		acc = vector.NewArray(b.result, n)
	}
	return acc, nil
}

func (b *boolEval) Type() types.ID { return types.BOOL }
