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

// Package source defines the pull-based producer contract that feeds
// pages into the evaluator and algebra layers, plus a synthetic
// reference implementation used by tests.
package source

import (
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// Kind is a registered input-source identifier, used by the logical
// plan JSON surface's Scan.kind field. The set of kinds is the fixed
// list of constants below; catalog.PackageManager has no registry of
// source kinds or source constructors.
type Kind string

// The built-in input-source kinds.
const (
	KindFrom   Kind = "from"
	KindRandom Kind = "random"
	KindMem    Kind = "mem"
)

// Source is the four-operation pull contract every input source
// implements. Next's returned Page is borrowed and remains valid
// only until the following Next or Close call.
type Source interface {
	// Open prepares the source for iteration.
	Open() error
	// HasNext is an advisory hint; Next is still safe to call even
	// if HasNext would have returned false.
	HasNext() bool
	// Next returns the next page. Once the source is exhausted it
	// returns a page with ValueCount() == 0 forever after.
	Next() (*page.Page, error)
	// Close releases any resources held by the source.
	Close() error
	// Schema returns the column layout every page from this source
	// shares.
	Schema() types.Schema
}
