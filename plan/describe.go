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

import "strings"

// describeVisitor renders a textual tree dump, indenting one level
// per Visit call, in the teacher's plan/tree.go tabify style.
type describeVisitor struct {
	out    *strings.Builder
	indent int
}

func (d *describeVisitor) Visit(op Operator) Visitor {
	if op == nil {
		return nil
	}
	for i := 0; i < d.indent; i++ {
		d.out.WriteByte('\t')
	}
	d.out.WriteString(op.String())
	d.out.WriteByte('\n')
	return &describeVisitor{out: d.out, indent: d.indent + 1}
}

// Describe renders root as an indented tree, children nested under
// their parent, for debugging and tests.
func Describe(root Operator) string {
	var out strings.Builder
	Walk(&describeVisitor{out: &out}, root)
	return out.String()
}
