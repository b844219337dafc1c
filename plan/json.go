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
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/source"
	"github.com/vectorql/vq/types"
)

// jsonNode mirrors the test-oriented logical-plan JSON surface (§6):
// { "op": <name>, "children": [...], "args": {...} }.
type jsonNode struct {
	Op       string         `json:"op"`
	Children []jsonNode     `json:"children,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
}

// EncodeJSON serializes an Operator tree to the logical-plan JSON
// surface.
func EncodeJSON(op Operator) ([]byte, error) {
	return json.Marshal(toJSONNode(op))
}

// DecodeJSON reverses EncodeJSON.
func DecodeJSON(data []byte) (Operator, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, err
	}
	return fromJSONNode(jn)
}

func toJSONNode(op Operator) jsonNode {
	jn := jsonNode{Op: opName(op)}
	for _, c := range op.Children() {
		jn.Children = append(jn.Children, toJSONNode(c))
	}
	switch o := op.(type) {
	case *Scan:
		schema := make([]string, o.Dataset.Schema.Len())
		for i, t := range o.Dataset.Schema.Types() {
			schema[i] = t.String()
		}
		jn.Args = map[string]any{
			"dataset_id": o.Dataset.ID.String(),
			"kind":       string(o.Dataset.Kind),
			"schema":     schema,
		}
	case *Project:
		exprs := make([]any, len(o.Exprs))
		for i, e := range o.Exprs {
			exprs[i] = exprToAny(e)
		}
		jn.Args = map[string]any{"exprs": exprs}
	case *Filter:
		preds := make([]any, len(o.Predicates))
		for i, e := range o.Predicates {
			preds[i] = exprToAny(e)
		}
		jn.Args = map[string]any{"predicates": preds}
	case *Join:
		jn.Args = map[string]any{
			"type":      o.Type.String(),
			"condition": exprToAny(o.Condition),
		}
	case *Aggregate:
		keys := make([]any, len(o.GroupKeys))
		for i, k := range o.GroupKeys {
			keys[i] = exprToAny(k)
		}
		aggs := make([]any, len(o.Aggregates))
		for i, a := range o.Aggregates {
			aggs[i] = map[string]any{
				"op":  a.Op.String(),
				"arg": exprToAny(a.Arg),
				"as":  a.As,
			}
		}
		jn.Args = map[string]any{"group_keys": keys, "aggregates": aggs}
	case *Head:
		jn.Args = map[string]any{"n": o.N}
	case *Tail:
		jn.Args = map[string]any{"n": o.N}
	}
	return jn
}

func fromJSONNode(jn jsonNode) (Operator, error) {
	children := make([]Operator, len(jn.Children))
	for i, c := range jn.Children {
		op, err := fromJSONNode(c)
		if err != nil {
			return nil, err
		}
		children[i] = op
	}

	switch jn.Op {
	case "scan":
		idStr, _ := jn.Args["dataset_id"].(string)
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("plan: decoding scan dataset_id: %w", err)
		}
		schemaNames, _ := jn.Args["schema"].([]any)
		cols := make([]types.Column, len(schemaNames))
		for i, raw := range schemaNames {
			name, _ := raw.(string)
			t, ok := types.ByName(name)
			if !ok {
				return nil, fmt.Errorf("plan: decoding scan schema: unknown type %q", name)
			}
			// The JSON surface carries only type names (§6); column
			// names are not part of the wire format, so reconstruct
			// them positionally the way source.RandomSource does.
			cols[i] = types.Column{Name: fmt.Sprintf("c%d", i), Type: t}
		}
		kind, _ := jn.Args["kind"].(string)
		return &Scan{Dataset: Dataset{ID: id, Kind: source.Kind(kind), Schema: types.NewSchema(cols...)}}, nil

	case "project":
		rawExprs, _ := jn.Args["exprs"].([]any)
		exprs := make([]expr.Node, len(rawExprs))
		for i, re := range rawExprs {
			e, err := exprFromAny(re)
			if err != nil {
				return nil, err
			}
			exprs[i] = e
		}
		return &Project{unaryChild: unaryChild{Child: children[0]}, Exprs: exprs}, nil

	case "filter":
		rawPreds, _ := jn.Args["predicates"].([]any)
		preds := make([]expr.Node, len(rawPreds))
		for i, rp := range rawPreds {
			e, err := exprFromAny(rp)
			if err != nil {
				return nil, err
			}
			preds[i] = e
		}
		return &Filter{unaryChild: unaryChild{Child: children[0]}, Predicates: preds}, nil

	case "join":
		jt, err := parseJoinType(jn.Args["type"].(string))
		if err != nil {
			return nil, err
		}
		cond, err := exprFromAny(jn.Args["condition"])
		if err != nil {
			return nil, err
		}
		return &Join{Type: jt, Left: children[0], Right: children[1], Condition: cond}, nil

	case "aggregate":
		rawKeys, _ := jn.Args["group_keys"].([]any)
		keys := make([]expr.Node, len(rawKeys))
		for i, rk := range rawKeys {
			e, err := exprFromAny(rk)
			if err != nil {
				return nil, err
			}
			keys[i] = e
		}
		rawAggs, _ := jn.Args["aggregates"].([]any)
		aggs := make([]AggregateExpr, len(rawAggs))
		for i, ra := range rawAggs {
			m, _ := ra.(map[string]any)
			op, err := parseAggregateOp(m["op"].(string))
			if err != nil {
				return nil, err
			}
			arg, err := exprFromAny(m["arg"])
			if err != nil {
				return nil, err
			}
			as, _ := m["as"].(string)
			aggs[i] = AggregateExpr{Op: op, Arg: arg, As: as}
		}
		return &Aggregate{unaryChild: unaryChild{Child: children[0]}, GroupKeys: keys, Aggregates: aggs}, nil

	case "head":
		n, _ := jn.Args["n"].(float64)
		return &Head{unaryChild: unaryChild{Child: children[0]}, N: int(n)}, nil

	case "tail":
		n, _ := jn.Args["n"].(float64)
		return &Tail{unaryChild: unaryChild{Child: children[0]}, N: int(n)}, nil

	default:
		return nil, fmt.Errorf("plan: unknown JSON op %q", jn.Op)
	}
}

func parseJoinType(s string) (JoinType, error) {
	switch s {
	case "INNER":
		return InnerJoin, nil
	case "LEFT_OUTER":
		return LeftOuterJoin, nil
	case "RIGHT_OUTER":
		return RightOuterJoin, nil
	case "FULL_OUTER":
		return FullOuterJoin, nil
	default:
		return 0, fmt.Errorf("plan: unknown join type %q", s)
	}
}

func parseAggregateOp(s string) (AggregateOp, error) {
	switch s {
	case "COUNT":
		return AggCount, nil
	case "SUM":
		return AggSum, nil
	case "MIN":
		return AggMin, nil
	case "MAX":
		return AggMax, nil
	case "AVG":
		return AggAvg, nil
	default:
		return 0, fmt.Errorf("plan: unknown aggregate op %q", s)
	}
}
