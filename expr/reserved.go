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

package expr

import "fmt"

// The following node kinds are part of the closed expression
// variant but are declared without being operational in v1: the
// eval package's MapCompiler rejects them with an error at compile
// time rather than evaluating them. They exist
// so the surface language's lowering step has somewhere to put these
// constructs ahead of the core gaining kernels for them.

// Between tests Low <= Value <= High.
type Between struct {
	Value, Low, High Node
}

func (*Between) sealed()          {}
func (b *Between) String() string { return fmt.Sprintf("(%s BETWEEN %s AND %s)", b.Value, b.Low, b.High) }
func (b *Between) walkChildren(v Visitor) {
	Walk(v, b.Value)
	Walk(v, b.Low)
	Walk(v, b.High)
}

// In tests set membership.
type In struct {
	Value Node
	Set   []Node
}

func (*In) sealed()          {}
func (n *In) String() string { return fmt.Sprintf("(%s IN (...))", n.Value) }
func (n *In) walkChildren(v Visitor) {
	Walk(v, n.Value)
	for _, c := range n.Set {
		Walk(v, c)
	}
}

// Like tests an SQL LIKE pattern.
type Like struct {
	Value   Node
	Pattern string
}

func (*Like) sealed()          {}
func (l *Like) String() string { return fmt.Sprintf("(%s LIKE %q)", l.Value, l.Pattern) }
func (l *Like) walkChildren(v Visitor) { Walk(v, l.Value) }

// SimilarTo tests a SQL SIMILAR TO pattern.
type SimilarTo struct {
	Value   Node
	Pattern string
}

func (*SimilarTo) sealed()          {}
func (s *SimilarTo) String() string { return fmt.Sprintf("(%s SIMILAR TO %q)", s.Value, s.Pattern) }
func (s *SimilarTo) walkChildren(v Visitor) { Walk(v, s.Value) }

// RegexMatch tests a regular expression.
type RegexMatch struct {
	Value   Node
	Pattern string
}

func (*RegexMatch) sealed()          {}
func (r *RegexMatch) String() string { return fmt.Sprintf("(%s ~ %q)", r.Value, r.Pattern) }
func (r *RegexMatch) walkChildren(v Visitor) { Walk(v, r.Value) }

// IsNull tests nullness.
type IsNull struct {
	Value Node
}

func (*IsNull) sealed()          {}
func (n *IsNull) String() string { return fmt.Sprintf("(%s IS NULL)", n.Value) }
func (n *IsNull) walkChildren(v Visitor) { Walk(v, n.Value) }
