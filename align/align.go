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

// Package align provides small integer-alignment helpers shared by
// the page and kernel packages.
package align

import "golang.org/x/exp/constraints"

// IsAligned returns true if and only if v is an integer multiple of alignment.
func IsAligned[T constraints.Integer](v, alignment T) bool {
	return v%alignment == 0
}

// Up returns v aligned up to a given alignment.
func Up[T constraints.Integer](v, alignment T) T {
	return ((v + alignment - 1) / alignment) * alignment
}

// Down returns v aligned down to a given alignment.
func Down[T constraints.Integer](v, alignment T) T {
	return (v / alignment) * alignment
}
