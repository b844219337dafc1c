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

// Package expr implements the scalar expression tree (a tagged
// variant of field references, literals, arithmetic, comparison, and
// boolean nodes) and the visitor framework used to traverse it.
package expr

import (
	"fmt"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// Datum is an immediate scalar value carried by a Const node. Its
// physical type derives from which field is set.
type Datum struct {
	typ types.ID
	b   bool
	i   int64
	f   float64
	t   string
}

// DatumBool builds a BOOL datum.
func DatumBool(v bool) Datum { return Datum{typ: types.BOOL, b: v} }

// DatumInt builds an integer datum of the given width (INT1/2/4/8).
func DatumInt(t types.ID, v int64) Datum {
	if !t.Has(types.CapArithmetic) || t.Has(types.CapTemporal) || t == types.FLOAT4 || t == types.FLOAT8 {
		panic(fmt.Sprintf("expr: %s is not an integer type", t))
	}
	return Datum{typ: t, i: v}
}

// DatumFloat32 builds a FLOAT4 datum.
func DatumFloat32(v float32) Datum { return Datum{typ: types.FLOAT4, f: float64(v)} }

// DatumFloat64 builds a FLOAT8 datum.
func DatumFloat64(v float64) Datum { return Datum{typ: types.FLOAT8, f: v} }

// DatumDate builds a DATE datum.
func DatumDate(v page.Date) Datum { return Datum{typ: types.DATE, i: int64(v)} }

// DatumTime builds a TIME datum.
func DatumTime(v page.Time) Datum { return Datum{typ: types.TIME, i: int64(v)} }

// DatumTimestamp builds a TIMESTAMP datum.
func DatumTimestamp(v page.Timestamp) Datum { return Datum{typ: types.TIMESTAMP, i: int64(v)} }

// DatumText builds a TEXT datum.
func DatumText(v string) Datum { return Datum{typ: types.TEXT, t: v} }

// Type returns the datum's physical type.
func (d Datum) Type() types.ID { return d.typ }

// Bool returns the datum's boolean value; only valid when Type() == BOOL.
func (d Datum) Bool() bool { return d.b }

// Int returns the datum's integer value; valid for integer and
// temporal types.
func (d Datum) Int() int64 { return d.i }

// Float returns the datum's float value; only valid for FLOAT4/FLOAT8.
func (d Datum) Float() float64 { return d.f }

// Text returns the datum's string value; only valid when Type() == TEXT.
func (d Datum) Text() string { return d.t }

// String renders the datum for diagnostics and the plan printer.
func (d Datum) String() string {
	switch d.typ {
	case types.BOOL:
		return fmt.Sprintf("%v", d.b)
	case types.TEXT:
		return fmt.Sprintf("%q", d.t)
	case types.FLOAT4, types.FLOAT8:
		return fmt.Sprintf("%v", d.f)
	default:
		return fmt.Sprintf("%v", d.i)
	}
}
