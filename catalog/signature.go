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

// Package catalog implements the function registry a host embedding
// this engine uses to bind user-callable scalar, aggregation, and
// window functions to kernel invocations, organised into packages
// loaded in insertion order.
package catalog

import (
	"fmt"

	"github.com/dchest/siphash"

	"github.com/vectorql/vq/types"
)

// FuncKind distinguishes the three invocation shapes a registered
// function may have.
type FuncKind uint8

const (
	Scalar FuncKind = iota
	Aggregation
	Window
)

func (k FuncKind) String() string {
	switch k {
	case Scalar:
		return "SCALAR"
	case Aggregation:
		return "AGGREGATION"
	case Window:
		return "WINDOW"
	default:
		return fmt.Sprintf("FuncKind(%d)", k)
	}
}

// FuncSignature identifies a registered function by name, its
// argument types, and its invocation kind. Equality compares all
// three fields; ordering (used only to break registry ties
// deterministically in diagnostics) compares the name alone.
type FuncSignature struct {
	Name     string
	ArgTypes []types.ID
	Kind     FuncKind
}

// Equal reports whether s and other name the same function.
func (s FuncSignature) Equal(other FuncSignature) bool {
	if s.Name != other.Name || s.Kind != other.Kind || len(s.ArgTypes) != len(other.ArgTypes) {
		return false
	}
	for i, t := range s.ArgTypes {
		if other.ArgTypes[i] != t {
			return false
		}
	}
	return true
}

// Less orders signatures by name only, for lookup stability in
// diagnostics; it does not participate in equality.
func (s FuncSignature) Less(other FuncSignature) bool {
	return s.Name < other.Name
}

func (s FuncSignature) String() string {
	args := ""
	for i, t := range s.ArgTypes {
		if i > 0 {
			args += ", "
		}
		args += t.String()
	}
	return fmt.Sprintf("%s(%s) [%s]", s.Name, args, s.Kind)
}

// hashKey0, hashKey1 are fixed siphash keys used for registry bucket
// placement only; they carry no secrecy requirement, matching the
// teacher's plan/input.go HashSplit use of fixed keys for
// deterministic partitioning.
const (
	hashKey0 = 0x5d1ec810febed702
	hashKey1 = 0x40fd7fee17262f71
)

// hash returns the signature's bucket hash, combining the name bytes
// with each argument type tag and the invocation kind.
func (s FuncSignature) hash() uint64 {
	buf := make([]byte, 0, len(s.Name)+len(s.ArgTypes)+1)
	buf = append(buf, s.Name...)
	for _, t := range s.ArgTypes {
		buf = append(buf, byte(t))
	}
	buf = append(buf, byte(s.Kind))
	return siphash.Hash(hashKey0, hashKey1, buf)
}
