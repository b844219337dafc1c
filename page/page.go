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

package page

import (
	"fmt"

	"github.com/vectorql/vq/types"
)

// Page is an ordered row batch: a list of MiniPages, one per column,
// sharing a single logical value count.
//
// A Page is either owned (it allocated its own MiniPages via New) or
// a view (its MiniPages are borrowed from another Page via Project
// or SetChunks). Both are the same Go type; the two are distinguished
// by a runtime flag, not by the type system: Owned reports true only
// for pages that allocated their own storage, and only an owned
// Page's chunks may be mutated through it without risk of corrupting
// an unrelated page. Misusing a view as an owned page is not a
// compile-time error.
type Page struct {
	chunks     []*MiniPage
	valueCount int
	owned      bool
}

// EmptyPage allocates only the outer chunk array, with no MiniPages;
// chunks are installed later via SetChunks.
func EmptyPage(columnCount int) *Page {
	return &Page{chunks: make([]*MiniPage, columnCount)}
}

// New allocates an owned Page with one freshly allocated MiniPage
// per type, in order.
func New(types []types.ID) *Page {
	chunks := make([]*MiniPage, len(types))
	for i, t := range types {
		chunks[i] = NewMiniPage(t)
	}
	return &Page{chunks: chunks, owned: true}
}

// SetChunks installs borrowed MiniPages, turning the page into a
// view: the page does not own, and must not mutate, these chunks.
func (p *Page) SetChunks(chunks []*MiniPage) {
	p.chunks = chunks
	p.owned = false
}

// Owned reports whether this Page allocated its own MiniPages.
func (p *Page) Owned() bool { return p.owned }

// ChunkNum returns the number of columns in the page.
func (p *Page) ChunkNum() int { return len(p.chunks) }

// Chunk returns the i-th MiniPage.
func (p *Page) Chunk(i int) *MiniPage { return p.chunks[i] }

// ValueCount returns the page's logical row count.
func (p *Page) ValueCount() int { return p.valueCount }

// SetValueCount fixes the logical row count. Readers must not read
// positions beyond n in any chunk.
func (p *Page) SetValueCount(n int) {
	if n < 0 || n > RowBatchSize {
		panic(fmt.Sprintf("page: value count %d out of range [0,%d]", n, RowBatchSize))
	}
	p.valueCount = n
}

// Project returns a view over the columns named by indices,
// preserving their relative order and sharing (not copying) the
// underlying MiniPages. Panics if any index is out of range.
func (p *Page) Project(indices []int) *Page {
	chunks := make([]*MiniPage, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(p.chunks) {
			panic(fmt.Sprintf("page: projection index %d out of range [0,%d)", idx, len(p.chunks)))
		}
		chunks[i] = p.chunks[idx]
	}
	return &Page{chunks: chunks, valueCount: p.valueCount, owned: false}
}

// ByteSize returns the sum of the byte sizes of the page's chunks.
func (p *Page) ByteSize() int {
	n := 0
	for _, c := range p.chunks {
		n += c.ByteSize()
	}
	return n
}

// ResetAll resets every owned chunk's write cursor (and TEXT arenas)
// in preparation for the next producer write. Panics on a view page,
// since a view does not own its chunks' write cursors.
func (p *Page) ResetAll() {
	if !p.owned {
		panic("page: cannot reset a view page")
	}
	for _, c := range p.chunks {
		c.Reset()
	}
	p.valueCount = 0
}

// FinalizeAll publishes every chunk's write cursor as its value
// count and sets the page's value count to match. All chunks are
// expected to have received the same number of writes.
func (p *Page) FinalizeAll() {
	n := -1
	for _, c := range p.chunks {
		c.Finalize()
		if n == -1 {
			n = c.Cursor()
		} else if c.Cursor() != n {
			panic("page: chunks disagree on row count")
		}
	}
	if n == -1 {
		n = 0
	}
	p.valueCount = n
}
