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

	"github.com/google/uuid"

	"github.com/vectorql/vq/types"
)

// FuncEntry pairs a signature with the action it invokes.
type FuncEntry struct {
	Signature FuncSignature
	Action    InvokeAction
}

// Package is a named bundle of type aliases and functions, loaded
// into a PackageManager as a unit: its Types are merged into the
// manager's type registry before any of its Funcs are registered,
// matching the "types first, then functions" load order named by
// the spec.
type Package struct {
	Name  string
	Types map[string]types.ID
	Funcs []FuncEntry
}

// registeredPackage records a Package's assigned identity, in the
// order it was loaded.
type registeredPackage struct {
	ID   uuid.UUID
	Name string
}

// PackageManager owns the merged type registry and function registry
// built up by loading Packages in insertion order. It is the host
// embedding's single point of function/type lookup.
type PackageManager struct {
	packages []registeredPackage
	types    map[string]types.ID
	buckets  map[uint64][]FuncEntry
}

// NewPackageManager returns an empty manager.
func NewPackageManager() *PackageManager {
	return &PackageManager{
		types:   make(map[string]types.ID),
		buckets: make(map[uint64][]FuncEntry),
	}
}

// Register loads pkg: first merging its type aliases into the shared
// registry, then its functions, assigning pkg a fresh identifier. A
// duplicate package name, a type alias that conflicts with one
// already registered under a different physical type, or a function
// signature that exactly duplicates one already registered, all fail
// the whole load — no partial registration.
func (pm *PackageManager) Register(pkg *Package) (uuid.UUID, error) {
	for _, p := range pm.packages {
		if p.Name == pkg.Name {
			return uuid.Nil, fmt.Errorf("catalog: package %q already registered", pkg.Name)
		}
	}

	for name, t := range pkg.Types {
		if existing, ok := pm.types[name]; ok && existing != t {
			return uuid.Nil, fmt.Errorf("catalog: package %q: type alias %q already registered as %s, cannot redefine as %s",
				pkg.Name, name, existing, t)
		}
	}

	for _, fe := range pkg.Funcs {
		bucket := pm.buckets[fe.Signature.hash()]
		for _, existing := range bucket {
			if existing.Signature.Equal(fe.Signature) {
				return uuid.Nil, fmt.Errorf("catalog: package %q: function %s already registered", pkg.Name, fe.Signature)
			}
		}
	}

	// Validation above passed; commit types then functions, in that
	// order, as the only two mutating passes.
	for name, t := range pkg.Types {
		pm.types[name] = t
	}
	for _, fe := range pkg.Funcs {
		h := fe.Signature.hash()
		pm.buckets[h] = append(pm.buckets[h], fe)
	}

	id := uuid.New()
	pm.packages = append(pm.packages, registeredPackage{ID: id, Name: pkg.Name})
	return id, nil
}

// TypeByName resolves a type alias registered by any loaded package.
func (pm *PackageManager) TypeByName(name string) (types.ID, bool) {
	t, ok := pm.types[name]
	return t, ok
}

// Lookup resolves a function by signature. When more than one
// function was registered under colliding hash buckets, candidates
// are scanned in insertion order and the first exact match (by
// FuncSignature.Equal) wins.
func (pm *PackageManager) Lookup(sig FuncSignature) (InvokeAction, bool) {
	for _, fe := range pm.buckets[sig.hash()] {
		if fe.Signature.Equal(sig) {
			return fe.Action, true
		}
	}
	return InvokeAction{}, false
}

// PackageNames returns the loaded package names in insertion order.
func (pm *PackageManager) PackageNames() []string {
	out := make([]string, len(pm.packages))
	for i, p := range pm.packages {
		out[i] = p.Name
	}
	return out
}
