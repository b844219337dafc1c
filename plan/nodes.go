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
	"strings"

	"github.com/google/uuid"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/source"
	"github.com/vectorql/vq/types"
)

// Dataset names the input a Scan leaf reads from: an identifier
// (grounded on cmd/snellerd's uuid.New() query-ID convention, here
// reused as a stable per-dataset handle), the input-source kind
// string (§6), and the schema every page from it carries.
type Dataset struct {
	ID     uuid.UUID
	Kind   source.Kind
	Schema types.Schema
}

// NewDataset builds a Dataset with a freshly generated identifier.
func NewDataset(kind source.Kind, schema types.Schema) Dataset {
	return Dataset{ID: uuid.New(), Kind: kind, Schema: schema}
}

// Scan is the only leaf operator: it has no children.
type Scan struct {
	Dataset Dataset
}

func (*Scan) sealed()              {}
func (*Scan) Children() []Operator { return nil }
func (s *Scan) String() string {
	return fmt.Sprintf("Scan(%s, kind=%s)", s.Dataset.ID, s.Dataset.Kind)
}

// Project evaluates Exprs against every row of Child, producing a
// page with len(Exprs) columns.
type Project struct {
	unaryChild
	Exprs []expr.Node
}

func (*Project) sealed() {}
func (p *Project) String() string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Project(%s)", strings.Join(parts, ", "))
}

// Filter keeps only rows satisfying every predicate in Predicates,
// read as a conjunction (CNF: the page's selection is the
// intersection of each predicate's selection).
type Filter struct {
	unaryChild
	Predicates []expr.Node
}

func (*Filter) sealed() {}
func (f *Filter) String() string {
	parts := make([]string, len(f.Predicates))
	for i, e := range f.Predicates {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Filter(%s)", strings.Join(parts, " AND "))
}

// JoinType enumerates the supported join kinds.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
)

func (jt JoinType) String() string {
	switch jt {
	case InnerJoin:
		return "INNER"
	case LeftOuterJoin:
		return "LEFT_OUTER"
	case RightOuterJoin:
		return "RIGHT_OUTER"
	case FullOuterJoin:
		return "FULL_OUTER"
	default:
		return fmt.Sprintf("JoinType(%d)", jt)
	}
}

// Join is the only binary operator.
type Join struct {
	Type      JoinType
	Left      Operator
	Right     Operator
	Condition expr.Node
}

func (*Join) sealed() {}
func (j *Join) Children() []Operator {
	return []Operator{j.Left, j.Right}
}
func (j *Join) walkChildren(v Visitor) {
	Walk(v, j.Left)
	Walk(v, j.Right)
}
func (j *Join) String() string {
	return fmt.Sprintf("Join(%s, %s)", j.Type, j.Condition)
}

// AggregateOp enumerates the built-in aggregate function kinds.
type AggregateOp int

const (
	AggCount AggregateOp = iota
	AggSum
	AggMin
	AggMax
	AggAvg
)

func (op AggregateOp) String() string {
	switch op {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggAvg:
		return "AVG"
	default:
		return fmt.Sprintf("AggregateOp(%d)", op)
	}
}

// AggregateExpr is one aggregate computed by an Aggregate operator:
// Op applied to Arg, bound to the output column name As.
type AggregateExpr struct {
	Op  AggregateOp
	Arg expr.Node
	As  string
}

func (a AggregateExpr) String() string {
	return fmt.Sprintf("%s(%s) AS %s", a.Op, a.Arg, a.As)
}

// Aggregate groups Child's rows by GroupKeys and computes Aggregates
// per group. Whether a group's result is produced as a single page
// or streamed incrementally is left to the executor (Open Question
// (a); this core commits to neither).
type Aggregate struct {
	unaryChild
	GroupKeys  []expr.Node
	Aggregates []AggregateExpr
}

func (*Aggregate) sealed() {}
func (a *Aggregate) String() string {
	keys := make([]string, len(a.GroupKeys))
	for i, k := range a.GroupKeys {
		keys[i] = k.String()
	}
	aggs := make([]string, len(a.Aggregates))
	for i, ag := range a.Aggregates {
		aggs[i] = ag.String()
	}
	return fmt.Sprintf("Aggregate(keys=[%s], aggs=[%s])", strings.Join(keys, ", "), strings.Join(aggs, ", "))
}

// Head keeps at most the first N rows Child produces.
type Head struct {
	unaryChild
	N int
}

func (*Head) sealed()          {}
func (h *Head) String() string { return fmt.Sprintf("Head(%d)", h.N) }

// Tail keeps at most the last N rows Child produces.
type Tail struct {
	unaryChild
	N int
}

func (*Tail) sealed()          {}
func (t *Tail) String() string { return fmt.Sprintf("Tail(%d)", t.N) }
