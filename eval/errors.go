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

// Package eval binds an expr.Node to a types.Schema and evaluates it
// against pages, implementing the MapEval and FilterEval
// sub-protocols over the kernel package's primitive table.
package eval

import (
	"fmt"

	"github.com/vectorql/vq/kernel"
	"github.com/vectorql/vq/types"
)

// UndefinedColumnError is returned by Bind when a Field node
// references a column absent from the schema.
type UndefinedColumnError struct {
	Name string
}

func (e *UndefinedColumnError) Error() string {
	return fmt.Sprintf("eval: undefined column %q", e.Name)
}

// TypeMismatchError is returned by Bind when two operands cannot be
// reconciled to a common type.
type TypeMismatchError struct {
	At  string // node kind, for diagnostics ("Arithm", "Comp", "Bool")
	Lhs types.ID
	Rhs types.ID
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("eval: %s: type mismatch between %s and %s", e.At, e.Lhs, e.Rhs)
}

// UnsupportedKernelError is returned by Bind when no kernel is
// registered for the resolved (op, type) pair.
type UnsupportedKernelError struct {
	Op  string
	Lhs types.ID
	Rhs types.ID
}

func (e *UnsupportedKernelError) Error() string {
	return fmt.Sprintf("eval: no kernel for %s(%s, %s)", e.Op, e.Lhs, e.Rhs)
}

// ErrDivByZero is returned by Eval when an integer arithmetic kernel
// divides or takes the modulus of zero. It is the same sentinel the
// kernel package returns, re-exported here so callers of this
// package need not import kernel directly to match it with
// errors.Is.
var ErrDivByZero = kernel.ErrDivByZero

// ErrNotBound is returned by Eval when called on an evaluator tree
// that was never successfully bound.
var ErrNotBound = fmt.Errorf("eval: evaluator used before a successful Bind")
