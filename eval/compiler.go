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
	"fmt"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/kernel"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// MapCompiler walks an expr.Node post-order (children before
// parents, the same shape expr.Walk drives) and produces a bound
// MapEval tree against a fixed kernel.Table. Unlike the traversal-only
// expr.Visitor, compilation must return a value built from its
// children's compiled forms, so Compile uses a type switch over the
// closed expr.Node variant rather than expr.Walk: each case compiles
// its children first, then wraps them.
type MapCompiler struct {
	Table *kernel.Table
}

// NewMapCompiler builds a MapCompiler bound to the given primitive
// table.
func NewMapCompiler(tbl *kernel.Table) *MapCompiler {
	return &MapCompiler{Table: tbl}
}

// Compile translates n into an unbound MapEval. Call Bind on the
// result before evaluating it.
func (c *MapCompiler) Compile(n expr.Node) (MapEval, error) {
	switch node := n.(type) {
	case *expr.Field:
		return newFieldEval(node.Name), nil
	case *expr.Const:
		return newConstEval(datumToConst(node.Value)), nil
	case *expr.Arithm:
		lhs, err := c.Compile(node.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := c.Compile(node.RHS)
		if err != nil {
			return nil, err
		}
		return newArithEval(kernel.ArithOp(node.Op), lhs, rhs, c.Table), nil
	case *expr.Comp:
		lhs, err := c.Compile(node.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := c.Compile(node.RHS)
		if err != nil {
			return nil, err
		}
		return newCompEval(kernel.CompOp(node.Op), lhs, rhs, c.Table), nil
	case *expr.Bool:
		children := make([]MapEval, len(node.Children))
		for i, ch := range node.Children {
			compiled, err := c.Compile(ch)
			if err != nil {
				return nil, err
			}
			children[i] = compiled
		}
		switch node.Op {
		case expr.OpAnd:
			return newBoolEval(true, false, children, c.Table), nil
		case expr.OpOr:
			return newBoolEval(false, false, children, c.Table), nil
		case expr.OpNot:
			if len(children) != 1 {
				return nil, fmt.Errorf("eval: NOT takes exactly one child, got %d", len(children))
			}
			return newBoolEval(false, true, children, c.Table), nil
		default:
			return nil, fmt.Errorf("eval: unknown boolean op %v", node.Op)
		}
	default:
		return nil, fmt.Errorf("eval: %T is declared but not operational in v1", n)
	}
}

// datumToConst converts an expr.Datum into a vector.ConstVector of
// the same physical type.
func datumToConst(d expr.Datum) *vector.ConstVector {
	switch d.Type() {
	case types.BOOL:
		return vector.NewConstBool(d.Bool())
	case types.FLOAT4:
		return vector.NewConstFloat32(float32(d.Float()))
	case types.FLOAT8:
		return vector.NewConstFloat64(d.Float())
	case types.TEXT:
		return vector.NewConstText(d.Text())
	default:
		return vector.NewConstInt(d.Type(), d.Int())
	}
}
