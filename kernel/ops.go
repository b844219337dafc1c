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

// ArithOp enumerates the arithmetic operators the kernel table
// serves. Its ordering mirrors expr.ArithOp so the eval package can
// translate between them with a simple conversion.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// CompOp enumerates the comparison operators the kernel table
// serves, mirroring expr.CompOp.
type CompOp int

const (
	OpEQ CompOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

// BoolOp enumerates the boolean operators the kernel table serves,
// mirroring expr.BoolOp.
type BoolOp int

const (
	OpAnd BoolOp = iota
	OpOr
	OpNot
)
