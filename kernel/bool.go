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
	"github.com/vectorql/vq/vector"
)

// registerBoolean installs the strict AND/OR/NOT kernels. AND and OR
// always evaluate both operands at every addressed position: there
// is no kernel-level short circuit, per the spec's boolean kernel
// contract. Any short-circuiting belongs to the filter planner above
// this package.
func registerBoolean(t *Table) {
	t.bAnd = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
		return binary(dst, lhs, rhs, n, sel, readBool, readBool, writeBoolResult,
			func(a, b bool) (bool, error) { return a && b, nil })
	}
	t.bOr = func(dst *page.MiniPage, lhs, rhs vector.Vector, n int, sel []uint32) error {
		return binary(dst, lhs, rhs, n, sel, readBool, readBool, writeBoolResult,
			func(a, b bool) (bool, error) { return a || b, nil })
	}
	t.bNot = func(dst *page.MiniPage, src vector.Vector, n int, sel []uint32) error {
		unary(dst, src, n, sel, readBool, writeBoolResult, func(a bool) bool { return !a })
		return nil
	}
}
