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

package plan

import (
	"fmt"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// exprToAny renders an expr.Node as a JSON-compatible value, embedded
// under an operator's "args" in the logical-plan JSON surface (§6).
func exprToAny(n expr.Node) any {
	switch e := n.(type) {
	case *expr.Field:
		return map[string]any{"kind": "field", "name": e.Name}
	case *expr.Const:
		return map[string]any{
			"kind":  "const",
			"type":  e.Value.Type().String(),
			"value": datumToAny(e.Value),
		}
	case *expr.Arithm:
		return map[string]any{
			"kind": "arithm",
			"op":   e.Op.String(),
			"lhs":  exprToAny(e.LHS),
			"rhs":  exprToAny(e.RHS),
		}
	case *expr.Comp:
		return map[string]any{
			"kind": "comp",
			"op":   e.Op.String(),
			"lhs":  exprToAny(e.LHS),
			"rhs":  exprToAny(e.RHS),
		}
	case *expr.Bool:
		children := make([]any, len(e.Children))
		for i, c := range e.Children {
			children[i] = exprToAny(c)
		}
		return map[string]any{"kind": "bool", "op": e.Op.String(), "children": children}
	default:
		return map[string]any{"kind": "unsupported"}
	}
}

func datumToAny(d expr.Datum) any {
	switch d.Type() {
	case types.BOOL:
		return d.Bool()
	case types.TEXT:
		return d.Text()
	case types.FLOAT4, types.FLOAT8:
		return d.Float()
	default:
		return d.Int()
	}
}

// exprFromAny reverses exprToAny. v is the result of decoding a JSON
// value into Go's any-tree (map[string]any / []any / string / bool /
// float64), the shape encoding/json produces for untyped targets.
func exprFromAny(v any) (expr.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("plan: expr node is not an object: %#v", v)
	}
	kind, _ := m["kind"].(string)
	switch kind {
	case "field":
		name, _ := m["name"].(string)
		return &expr.Field{Name: name}, nil

	case "const":
		typeName, _ := m["type"].(string)
		t, ok := types.ByName(typeName)
		if !ok {
			return nil, fmt.Errorf("plan: const node has unknown type %q", typeName)
		}
		d, err := anyToDatum(t, m["value"])
		if err != nil {
			return nil, err
		}
		return &expr.Const{Value: d}, nil

	case "arithm":
		op, err := parseArithOp(m["op"].(string))
		if err != nil {
			return nil, err
		}
		lhs, err := exprFromAny(m["lhs"])
		if err != nil {
			return nil, err
		}
		rhs, err := exprFromAny(m["rhs"])
		if err != nil {
			return nil, err
		}
		return &expr.Arithm{Op: op, LHS: lhs, RHS: rhs}, nil

	case "comp":
		op, err := parseCompOp(m["op"].(string))
		if err != nil {
			return nil, err
		}
		lhs, err := exprFromAny(m["lhs"])
		if err != nil {
			return nil, err
		}
		rhs, err := exprFromAny(m["rhs"])
		if err != nil {
			return nil, err
		}
		return &expr.Comp{Op: op, LHS: lhs, RHS: rhs}, nil

	case "bool":
		op, err := parseBoolOp(m["op"].(string))
		if err != nil {
			return nil, err
		}
		rawChildren, _ := m["children"].([]any)
		children := make([]expr.Node, len(rawChildren))
		for i, rc := range rawChildren {
			c, err := exprFromAny(rc)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		return &expr.Bool{Op: op, Children: children}, nil

	default:
		return nil, fmt.Errorf("plan: unknown expr node kind %q", kind)
	}
}

func anyToDatum(t types.ID, v any) (expr.Datum, error) {
	switch t {
	case types.BOOL:
		b, _ := v.(bool)
		return expr.DatumBool(b), nil
	case types.TEXT:
		s, _ := v.(string)
		return expr.DatumText(s), nil
	case types.FLOAT4:
		f, _ := v.(float64)
		return expr.DatumFloat32(float32(f)), nil
	case types.FLOAT8:
		f, _ := v.(float64)
		return expr.DatumFloat64(f), nil
	case types.DATE:
		f, _ := v.(float64)
		return expr.DatumDate(page.Date(int64(f))), nil
	case types.TIME:
		f, _ := v.(float64)
		return expr.DatumTime(page.Time(int64(f))), nil
	case types.TIMESTAMP:
		f, _ := v.(float64)
		return expr.DatumTimestamp(page.Timestamp(int64(f))), nil
	default:
		f, _ := v.(float64)
		return expr.DatumInt(t, int64(f)), nil
	}
}

func parseArithOp(s string) (expr.ArithOp, error) {
	switch s {
	case "+":
		return expr.OpAdd, nil
	case "-":
		return expr.OpSub, nil
	case "*":
		return expr.OpMul, nil
	case "/":
		return expr.OpDiv, nil
	case "%":
		return expr.OpMod, nil
	default:
		return 0, fmt.Errorf("plan: unknown arithmetic operator %q", s)
	}
}

func parseCompOp(s string) (expr.CompOp, error) {
	switch s {
	case "=":
		return expr.OpEQ, nil
	case "!=":
		return expr.OpNE, nil
	case "<":
		return expr.OpLT, nil
	case "<=":
		return expr.OpLE, nil
	case ">":
		return expr.OpGT, nil
	case ">=":
		return expr.OpGE, nil
	default:
		return 0, fmt.Errorf("plan: unknown comparison operator %q", s)
	}
}

func parseBoolOp(s string) (expr.BoolOp, error) {
	switch s {
	case "AND":
		return expr.OpAnd, nil
	case "OR":
		return expr.OpOr, nil
	case "NOT":
		return expr.OpNot, nil
	default:
		return 0, fmt.Errorf("plan: unknown boolean operator %q", s)
	}
}
