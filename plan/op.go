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

// Package plan implements the logical algebra tree (Scan, Project,
// Filter, Join, Aggregate, Head, Tail) and the post-order stack
// builder an upstream planner drives to assemble one.
package plan

import "fmt"

// Operator is a member of the closed set of logical algebra
// variants. Like expr.Node, the sealed method keeps the set closed
// to this package.
type Operator interface {
	sealed()
	// Children returns this operator's inputs in evaluation order:
	// empty for Scan, one element for every unary combinator, two for
	// Join.
	Children() []Operator
	String() string
}

// nonleaf is implemented by every multi-child Operator so Walk can
// recurse without a type switch at each call site. Unary operators
// implement it trivially via Children(); it exists mainly to mirror
// expr.Node's traversal shape.
type nonleaf interface {
	walkChildren(v Visitor)
}

// Visitor is visited once per Operator encountered by Walk, in the
// same style as expr.Visitor: Visit(op) is called for op, and if it
// returns a non-nil Visitor w, Walk recurses into op's children with
// w, then calls w.Visit(nil) to signal the subtree is finished.
type Visitor interface {
	Visit(Operator) Visitor
}

// Walk traverses op in depth-first order via v. Both expr and plan
// trees are traversed via this same pattern (component J): compilers,
// optimisers, and printers are all visitors.
func Walk(v Visitor, op Operator) {
	if op == nil {
		return
	}
	w := v.Visit(op)
	if w == nil {
		return
	}
	if nl, ok := op.(nonleaf); ok {
		nl.walkChildren(w)
	} else {
		for _, c := range op.Children() {
			Walk(w, c)
		}
	}
	w.Visit(nil)
}

// unaryChild is embedded by every single-child combinator to supply
// Children() and walkChildren() uniformly.
type unaryChild struct {
	Child Operator
}

func (u *unaryChild) Children() []Operator { return []Operator{u.Child} }
func (u *unaryChild) walkChildren(v Visitor) {
	Walk(v, u.Child)
}

// opName returns the lowercase variant name used by the JSON
// logical-plan surface (§6).
func opName(op Operator) string {
	switch op.(type) {
	case *Scan:
		return "scan"
	case *Project:
		return "project"
	case *Filter:
		return "filter"
	case *Join:
		return "join"
	case *Aggregate:
		return "aggregate"
	case *Head:
		return "head"
	case *Tail:
		return "tail"
	default:
		return fmt.Sprintf("unknown(%T)", op)
	}
}
