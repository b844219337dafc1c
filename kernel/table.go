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
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// arithKey and compKey are keyed on (op, operand type) only: the kernel
// bodies already dispatch ArrayVector-vs-ConstVector per operand at
// read time via the adapters in arith.go/comp.go, so the lhs_const x
// rhs_const dimension the spec calls out (VV, VC, CV, with CC
// forbidden) is handled once per kernel rather than requiring three
// separate map entries. CC exclusion is enforced by the eval
// package's bind step, which refuses to bind an Arithm or Comp node
// whose operands are both constants.
type arithKey struct {
	op  ArithOp
	typ types.ID
}

type compKey struct {
	op  CompOp
	typ types.ID
}

// Table is the bound primitive table: a lookup from (op, type) to a
// kernel function, for each of the three kernel families.
type Table struct {
	arith map[arithKey]Fn
	comp  map[compKey]Fn
	bAnd  Fn
	bOr   Fn
	bNot  UnaryFn
}

// UnaryFn is the kernel signature for a single-operand (NOT) kernel.
type UnaryFn func(dst *page.MiniPage, src vector.Vector, n int, selection []uint32) error

// New builds the fully populated primitive table.
func New() *Table {
	t := &Table{
		arith: make(map[arithKey]Fn),
		comp:  make(map[compKey]Fn),
	}
	registerArithmetic(t)
	registerComparison(t)
	registerBoolean(t)
	return t
}

// Arith resolves an arithmetic kernel for (op, resultType). resultType
// is the promoted operand type computed by types.Promote.
func (t *Table) Arith(op ArithOp, resultType types.ID) (Fn, bool) {
	fn, ok := t.arith[arithKey{op, resultType}]
	return fn, ok
}

// Comp resolves a comparison kernel for (op, operandType), the
// common type of both operands after promotion.
func (t *Table) Comp(op CompOp, operandType types.ID) (Fn, bool) {
	fn, ok := t.comp[compKey{op, operandType}]
	return fn, ok
}

// And resolves the strict boolean AND kernel.
func (t *Table) And() Fn { return t.bAnd }

// Or resolves the strict boolean OR kernel.
func (t *Table) Or() Fn { return t.bOr }

// Not resolves the unary boolean NOT kernel.
func (t *Table) Not() UnaryFn { return t.bNot }
