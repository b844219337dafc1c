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
	"errors"

	"github.com/vectorql/vq/expr"
)

// ErrEmptyStack is returned by Build (or recorded internally by a
// combinator) when an operation needs a child that isn't on the
// stack.
var ErrEmptyStack = errors.New("plan: empty stack")

// ErrStillRemainStackItem is returned by Build when more than one
// operator remains on the stack: the sequence of builder calls never
// combined every pushed node into a single tree.
var ErrStillRemainStackItem = errors.New("plan: stack still has more than one item")

// Builder assembles a well-formed Operator tree from a post-order
// sequence of calls, underpinning both the surface language's
// expression-to-plan lowering and the fluent API used in tests. Each
// combinator is a short-circuiting fluent method: once an error
// occurs it is latched and every subsequent call becomes a no-op
// until Build reports it.
type Builder struct {
	stack []Operator
	err   error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) pop() Operator {
	if b.err != nil {
		return nil
	}
	if len(b.stack) == 0 {
		b.err = ErrEmptyStack
		return nil
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top
}

func (b *Builder) push(op Operator) *Builder {
	if b.err != nil {
		return b
	}
	b.stack = append(b.stack, op)
	return b
}

// Dataset pushes a Scan leaf for ds.
func (b *Builder) Dataset(ds Dataset) *Builder {
	return b.push(&Scan{Dataset: ds})
}

// Project pops one child and pushes Project(child, exprs).
func (b *Builder) Project(exprs ...expr.Node) *Builder {
	child := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Project{unaryChild: unaryChild{Child: child}, Exprs: exprs})
}

// Filter pops one child and pushes Filter(child, predicates).
func (b *Builder) Filter(predicates ...expr.Node) *Builder {
	child := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Filter{unaryChild: unaryChild{Child: child}, Predicates: predicates})
}

// Head pops one child and pushes Head(child, n).
func (b *Builder) Head(n int) *Builder {
	child := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Head{unaryChild: unaryChild{Child: child}, N: n})
}

// Tail pops one child and pushes Tail(child, n).
func (b *Builder) Tail(n int) *Builder {
	child := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Tail{unaryChild: unaryChild{Child: child}, N: n})
}

// Aggregate pops one child and pushes Aggregate(child, groupKeys, aggs).
func (b *Builder) Aggregate(groupKeys []expr.Node, aggs []AggregateExpr) *Builder {
	child := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Aggregate{unaryChild: unaryChild{Child: child}, GroupKeys: groupKeys, Aggregates: aggs})
}

// Join pops the right child then the left child (the most recently
// pushed operator becomes the right side) and pushes a binary node.
func (b *Builder) Join(jt JoinType, cond expr.Node) *Builder {
	right := b.pop()
	left := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Join{Type: jt, Left: left, Right: right, Condition: cond})
}

// JoinWith pops only the left child, joining it against the given
// right-hand operator (built separately, e.g. via its own Builder).
func (b *Builder) JoinWith(jt JoinType, right Operator, cond expr.Node) *Builder {
	left := b.pop()
	if b.err != nil {
		return b
	}
	return b.push(&Join{Type: jt, Left: left, Right: right, Condition: cond})
}

// Build succeeds only if the stack contains exactly one element,
// returning the resulting well-formed tree. Any error latched by an
// earlier combinator is returned first.
func (b *Builder) Build() (Operator, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch len(b.stack) {
	case 0:
		return nil, ErrEmptyStack
	case 1:
		return b.stack[0], nil
	default:
		return nil, ErrStillRemainStackItem
	}
}
