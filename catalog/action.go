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

package catalog

import (
	"fmt"

	"github.com/vectorql/vq/kernel"
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// InvokeMethod selects which of InvokeAction's function fields is
// populated, mirroring the arity a registered function is invoked
// with.
type InvokeMethod uint8

const (
	// NoArg functions take no operands (e.g. a niladic generator).
	NoArg InvokeMethod = iota
	// Unary functions take a single operand vector, reusing the
	// kernel table's UnaryFn shape.
	Unary
	// Binary functions take two operand vectors, reusing the kernel
	// table's Fn shape.
	Binary
	// Trinity functions take three operand vectors (e.g. a ternary
	// conditional), not otherwise produced by the built-in kernel
	// table but reserved for packages that need it.
	Trinity
)

func (m InvokeMethod) String() string {
	switch m {
	case NoArg:
		return "NO_ARG"
	case Unary:
		return "UNARY"
	case Binary:
		return "BINARY"
	case Trinity:
		return "TRINITY"
	default:
		return fmt.Sprintf("InvokeMethod(%d)", m)
	}
}

// NoArgFn produces a result vector with no operands, e.g. a constant
// generator function.
type NoArgFn func(dst *page.MiniPage, n int) error

// TrinityFn is the kernel signature for a three-operand invocation.
type TrinityFn func(dst *page.MiniPage, a, b, c vector.Vector, n int, selection []uint32) error

// InvokeAction binds a registered function's return type to the
// kernel that implements it. Exactly one of the function fields is
// set, selected by Method.
type InvokeAction struct {
	ReturnType types.ID
	Method     InvokeMethod

	NoArg   NoArgFn
	Unary   kernel.UnaryFn
	Binary  kernel.Fn
	Trinity TrinityFn
}

// Invoke dispatches to the function field matching a.Method,
// panicking if the corresponding field is unset — a programming
// error in the package that registered a, not a runtime condition
// callers need to recover from.
func (a InvokeAction) Invoke(dst *page.MiniPage, n int, selection []uint32, operands ...vector.Vector) error {
	switch a.Method {
	case NoArg:
		if a.NoArg == nil {
			panic("catalog: InvokeAction.Method == NoArg but NoArg func is nil")
		}
		return a.NoArg(dst, n)
	case Unary:
		if a.Unary == nil {
			panic("catalog: InvokeAction.Method == Unary but Unary func is nil")
		}
		return a.Unary(dst, operands[0], n, selection)
	case Binary:
		if a.Binary == nil {
			panic("catalog: InvokeAction.Method == Binary but Binary func is nil")
		}
		return a.Binary(dst, operands[0], operands[1], n, selection)
	case Trinity:
		if a.Trinity == nil {
			panic("catalog: InvokeAction.Method == Trinity but Trinity func is nil")
		}
		return a.Trinity(dst, operands[0], operands[1], operands[2], n, selection)
	default:
		panic(fmt.Sprintf("catalog: invalid InvokeMethod %d", a.Method))
	}
}
