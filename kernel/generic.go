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

// Package kernel implements the primitive table: the (op x type x
// constness) matrix of scalar kernels the evaluator binds against.
// Kernel bodies are collapsed across the (VV, VC, CV) constness
// combinations with small read-adapter closures rather than being
// generated per combination, since each adapter already knows how to
// read either an ArrayVector or a ConstVector.
package kernel

import (
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/vector"
)

// positions iterates either the given selection (if non-nil) or the
// dense range [0, n), calling f with the destination write position
// and the source read position, which are always equal: a kernel
// writes only the positions it reads.
func positions(n int, selection []uint32, f func(pos int)) {
	if selection != nil {
		for _, i := range selection {
			f(int(i))
		}
		return
	}
	for i := 0; i < n; i++ {
		f(i)
	}
}

// binary evaluates a two-operand kernel generically over an operand
// type In and a result type Out (equal for arithmetic kernels,
// In=operand/Out=bool for comparison kernels), given read adapters
// (which must themselves handle both ArrayVector and ConstVector
// operands) and a write adapter for the destination MiniPage. op may
// return an error (used by integer division kernels to signal
// division by zero); the first error aborts evaluation.
func binary[In, Out any](dst *page.MiniPage, lhs, rhs vector.Vector, n int, selection []uint32,
	readL, readR func(vector.Vector, int) In, write func(*page.MiniPage, int, Out),
	op func(a, b In) (Out, error)) error {

	var outerErr error
	positions(n, selection, func(pos int) {
		if outerErr != nil {
			return
		}
		v, err := op(readL(lhs, pos), readR(rhs, pos))
		if err != nil {
			outerErr = err
			return
		}
		write(dst, pos, v)
	})
	return outerErr
}

// unary evaluates a single-operand kernel generically over T.
func unary[T any](dst *page.MiniPage, src vector.Vector, n int, selection []uint32,
	read func(vector.Vector, int) T, write func(*page.MiniPage, int, T),
	op func(a T) T) {

	positions(n, selection, func(pos int) {
		write(dst, pos, op(read(src, pos)))
	})
}
