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

// Package table implements an append-only in-memory sink of pages
// (MemTable) and a row-decoding reader over it. It backs the "mem"
// input-source kind.
package table

import (
	"fmt"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// MemTable is an append-only, in-memory column store. Write copies
// each incoming page into owned storage, so the caller's page may be
// reused immediately afterwards.
type MemTable struct {
	schema     types.Schema
	pages      []*page.Page
	rows       int
	projection []int // len == number of source columns; projection[i] is the sink column for source column i
}

// New creates an empty MemTable with the given sink schema. If
// projection is non-nil, Write maps source column i to sink column
// projection[i]; otherwise Write expects the source page's column
// count and order to match the schema exactly.
func New(schema types.Schema, projection []int) *MemTable {
	return &MemTable{schema: schema, projection: projection}
}

// Schema returns the table's sink schema.
func (m *MemTable) Schema() types.Schema { return m.schema }

// RowNum returns the cumulative number of rows written.
func (m *MemTable) RowNum() int { return m.rows }

// Write copies p's chunks into newly allocated, owned storage. On
// any validation failure (arity or type mismatch) the table is left
// completely unchanged: the all-or-nothing guarantee required by the
// spec's partial-failure policy.
func (m *MemTable) Write(p *page.Page) error {
	if p.ValueCount() == 0 {
		return nil
	}
	sinkFor, err := m.validate(p)
	if err != nil {
		return err
	}

	sink := page.New(m.schema.Types())
	for srcIdx, dstIdx := range sinkFor {
		if err := copyColumn(sink.Chunk(dstIdx), p.Chunk(srcIdx), p.ValueCount()); err != nil {
			return fmt.Errorf("table: copying column %d: %w", srcIdx, err)
		}
	}
	sink.FinalizeAll()
	m.pages = append(m.pages, sink)
	m.rows += p.ValueCount()
	return nil
}

// validate computes, without mutating the table, the source->sink
// column mapping and verifies every referenced type matches.
func (m *MemTable) validate(p *page.Page) ([]int, error) {
	mapping := m.projection
	if mapping == nil {
		if p.ChunkNum() != m.schema.Len() {
			return nil, fmt.Errorf("table: page has %d columns, schema has %d", p.ChunkNum(), m.schema.Len())
		}
		mapping = make([]int, p.ChunkNum())
		for i := range mapping {
			mapping[i] = i
		}
	}
	if len(mapping) != p.ChunkNum() {
		return nil, fmt.Errorf("table: write projection has %d entries, page has %d columns", len(mapping), p.ChunkNum())
	}
	for srcIdx, dstIdx := range mapping {
		if dstIdx < 0 || dstIdx >= m.schema.Len() {
			return nil, fmt.Errorf("table: projection maps column %d to out-of-range sink %d", srcIdx, dstIdx)
		}
		want := m.schema.Columns[dstIdx].Type
		got := p.Chunk(srcIdx).Type()
		if want != got {
			return nil, fmt.Errorf("table: column %d: type mismatch, sink wants %s, page has %s", srcIdx, want, got)
		}
	}
	return mapping, nil
}

func copyColumn(dst, src *page.MiniPage, n int) error {
	t := dst.Type()
	for i := 0; i < n; i++ {
		switch t {
		case types.BOOL:
			dst.WriteBool(i, src.ReadBool(i))
		case types.INT1:
			dst.WriteI8(i, src.ReadI8(i))
		case types.INT2:
			dst.WriteI16(i, src.ReadI16(i))
		case types.INT4:
			dst.WriteI32(i, src.ReadI32(i))
		case types.INT8:
			dst.WriteI64(i, src.ReadI64(i))
		case types.FLOAT4:
			dst.WriteF32(i, src.ReadF32(i))
		case types.FLOAT8:
			dst.WriteF64(i, src.ReadF64(i))
		case types.DATE:
			dst.WriteDate(i, src.ReadDate(i))
		case types.TIME:
			dst.WriteTime(i, src.ReadTime(i))
		case types.TIMESTAMP:
			dst.WriteTimestamp(i, src.ReadTimestamp(i))
		case types.TEXT:
			dst.WriteText(i, src.ReadText(i))
		default:
			return fmt.Errorf("unsupported type %s", t)
		}
	}
	return nil
}
