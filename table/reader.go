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

package table

import (
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// Row is one decoded tuple, type-homogeneous with the table's sink
// schema: Row[i] holds the Go-native value for schema.Columns[i].
type Row []any

// Reader yields decoded rows from a MemTable in insertion order. A
// Reader signals end of iteration with a well-defined empty result:
// Next returns (nil, false).
type Reader struct {
	schema  types.Schema
	pages   []*page.Page
	pageIdx int
	rowIdx  int
}

// Reader returns a fresh iterator over every row written so far.
// Later writes to the table are not visible to readers created
// before them.
func (m *MemTable) Reader() *Reader {
	pages := make([]*page.Page, len(m.pages))
	copy(pages, m.pages)
	return &Reader{schema: m.schema, pages: pages}
}

// Next returns the next row, or (nil, false) once exhausted.
func (r *Reader) Next() (Row, bool) {
	for r.pageIdx < len(r.pages) {
		p := r.pages[r.pageIdx]
		if r.rowIdx >= p.ValueCount() {
			r.pageIdx++
			r.rowIdx = 0
			continue
		}
		row := decodeRow(p, r.rowIdx, r.schema)
		r.rowIdx++
		return row, true
	}
	return nil, false
}

func decodeRow(p *page.Page, idx int, schema types.Schema) Row {
	row := make(Row, schema.Len())
	for col, c := range schema.Columns {
		row[col] = decodeCell(p.Chunk(col), c.Type, idx)
	}
	return row
}

func decodeCell(mp *page.MiniPage, t types.ID, idx int) any {
	switch t {
	case types.BOOL:
		return mp.ReadBool(idx)
	case types.INT1:
		return mp.ReadI8(idx)
	case types.INT2:
		return mp.ReadI16(idx)
	case types.INT4:
		return mp.ReadI32(idx)
	case types.INT8:
		return mp.ReadI64(idx)
	case types.FLOAT4:
		return mp.ReadF32(idx)
	case types.FLOAT8:
		return mp.ReadF64(idx)
	case types.DATE:
		return mp.ReadDate(idx)
	case types.TIME:
		return mp.ReadTime(idx)
	case types.TIMESTAMP:
		return mp.ReadTimestamp(idx)
	case types.TEXT:
		return mp.ReadText(idx)
	default:
		panic("table: unsupported type in decodeCell")
	}
}
