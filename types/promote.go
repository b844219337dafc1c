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

package types

// rank orders numeric types from narrowest to widest for promotion
// purposes. Floats always outrank integers of any width.
var rank = map[ID]int{
	INT1:   1,
	INT2:   2,
	INT4:   3,
	INT8:   4,
	FLOAT4: 5,
	FLOAT8: 6,
}

// Promote computes the result type of a binary arithmetic operation
// between two numeric operand types, per the numeric promotion rule:
// identical types yield that type; mixed integer widths promote to
// the widest; any float promotes to its widest operand; a temporal
// type mixed with a non-identical type is rejected.
func Promote(lhs, rhs ID) (ID, bool) {
	if lhs == rhs {
		return lhs, true
	}
	if lhs.Has(CapTemporal) || rhs.Has(CapTemporal) {
		// temporal-mixed-with-integer is not permitted at v1
		return 0, false
	}
	lr, lok := rank[lhs]
	rr, rok := rank[rhs]
	if !lok || !rok {
		return 0, false
	}
	if lr >= rr {
		return lhs, true
	}
	return rhs, true
}
