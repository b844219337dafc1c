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

// Package vector implements the read-only value abstraction that
// kernels and the evaluator operate over: either an ArrayVector
// (up to page.RowBatchSize values, borrowing a MiniPage) or a
// ConstVector (length 1, holding a scalar). Constness selects, per
// operand, whether a kernel's read adapter indexes an array or
// broadcasts a scalar.
package vector

import (
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// Vector is the common read interface shared by ArrayVector and
// ConstVector.
type Vector interface {
	// Type returns the vector's physical type.
	Type() types.ID
	// IsConst reports whether this is a ConstVector. The kernels'
	// read adapters check it on every read to choose between array
	// indexing and the scalar value.
	IsConst() bool
	// Len returns the number of addressable values: the n the
	// ArrayVector was built with, 1 for a ConstVector.
	Len() int
}

// ArrayVector is a zero-copy read view over a MiniPage's first n
// values. It borrows the MiniPage and must not outlive it.
type ArrayVector struct {
	mp *page.MiniPage
	n  int
}

// NewArray wraps mp as an ArrayVector of n values. n is normally
// mp.ValueCount(), but may be smaller when a caller intends to read
// only a prefix.
func NewArray(mp *page.MiniPage, n int) *ArrayVector {
	return &ArrayVector{mp: mp, n: n}
}

func (a *ArrayVector) Type() types.ID { return a.mp.Type() }
func (a *ArrayVector) IsConst() bool  { return false }
func (a *ArrayVector) Len() int       { return a.n }

// MiniPage returns the borrowed backing storage, for kernels that
// want direct typed access.
func (a *ArrayVector) MiniPage() *page.MiniPage { return a.mp }

// ConstVector holds a single scalar value, broadcast across
// whichever positions a kernel addresses.
type ConstVector struct {
	typ types.ID
	b   bool
	i   int64
	f   float64
	t   string
}

func (c *ConstVector) Type() types.ID { return c.typ }
func (c *ConstVector) IsConst() bool  { return true }
func (c *ConstVector) Len() int       { return 1 }

// Bool returns the scalar's boolean value.
func (c *ConstVector) Bool() bool { return c.b }

// Int returns the scalar's integer (or temporal) value.
func (c *ConstVector) Int() int64 { return c.i }

// Float returns the scalar's float value.
func (c *ConstVector) Float() float64 { return c.f }

// Text returns the scalar's string value.
func (c *ConstVector) Text() string { return c.t }

// NewConstBool builds a BOOL ConstVector.
func NewConstBool(v bool) *ConstVector { return &ConstVector{typ: types.BOOL, b: v} }

// NewConstInt builds an integer/temporal ConstVector of type t.
func NewConstInt(t types.ID, v int64) *ConstVector { return &ConstVector{typ: t, i: v} }

// NewConstFloat32 builds a FLOAT4 ConstVector.
func NewConstFloat32(v float32) *ConstVector { return &ConstVector{typ: types.FLOAT4, f: float64(v)} }

// NewConstFloat64 builds a FLOAT8 ConstVector.
func NewConstFloat64(v float64) *ConstVector { return &ConstVector{typ: types.FLOAT8, f: v} }

// NewConstText builds a TEXT ConstVector.
func NewConstText(v string) *ConstVector { return &ConstVector{typ: types.TEXT, t: v} }
