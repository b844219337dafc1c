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
	"testing"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/source"
	"github.com/vectorql/vq/types"
)

// TestRoundTripRandomToMem exercises property P4: every row written
// via RandomSource->MemTable is read back in insertion order,
// unchanged.
func TestRoundTripRandomToMem(t *testing.T) {
	const n = 37
	src := source.NewRandomSource([]types.ID{types.INT4, types.FLOAT4}, n, 3)
	if err := src.Open(); err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	schema := types.NewSchema(
		types.Column{Name: "i", Type: types.INT4},
		types.Column{Name: "f", Type: types.FLOAT4},
	)
	mt := New(schema, nil)

	var wantI []int32
	var wantF []float32
	for src.HasNext() {
		p, err := src.Next()
		if err != nil {
			t.Fatal(err)
		}
		if p.ValueCount() == 0 {
			break
		}
		for i := 0; i < p.ValueCount(); i++ {
			wantI = append(wantI, p.Chunk(0).ReadI32(i))
			wantF = append(wantF, p.Chunk(1).ReadF32(i))
		}
		if err := mt.Write(p); err != nil {
			t.Fatal(err)
		}
	}

	if mt.RowNum() != n {
		t.Fatalf("row num = %d, want %d", mt.RowNum(), n)
	}

	r := mt.Reader()
	for i := 0; i < n; i++ {
		row, ok := r.Next()
		if !ok {
			t.Fatalf("reader exhausted early at row %d", i)
		}
		if row[0].(int32) != wantI[i] || row[1].(float32) != wantF[i] {
			t.Errorf("row %d mismatch: got (%v,%v), want (%v,%v)", i, row[0], row[1], wantI[i], wantF[i])
		}
	}
	if _, ok := r.Next(); ok {
		t.Fatal("expected reader to be exhausted")
	}
}

// TestThreeBatchWrite exercises end-to-end scenario 3: writing
// ROWBATCH_SIZE*2+100 rows through three Next/Write cycles yields
// row_num = 2148, and a fourth Next call yields zero.
func TestThreeBatchWrite(t *testing.T) {
	const total = page.RowBatchSize*2 + 100
	src := source.NewRandomSource([]types.ID{types.INT4}, total, 9)
	src.Open()
	defer src.Close()

	schema := types.NewSchema(types.Column{Name: "i", Type: types.INT4})
	mt := New(schema, nil)

	for i := 0; i < 3; i++ {
		p, err := src.Next()
		if err != nil {
			t.Fatal(err)
		}
		if err := mt.Write(p); err != nil {
			t.Fatal(err)
		}
	}
	if mt.RowNum() != total {
		t.Fatalf("row num = %d, want %d", mt.RowNum(), total)
	}

	p4, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if p4.ValueCount() != 0 {
		t.Fatalf("fourth next value count = %d, want 0", p4.ValueCount())
	}
}

func TestWriteProjection(t *testing.T) {
	schema := types.NewSchema(
		types.Column{Name: "a", Type: types.INT4},
		types.Column{Name: "b", Type: types.INT4},
	)
	mt := New(schema, []int{1, 0}) // source col 0 -> sink col 1, source col 1 -> sink col 0

	src := page.New([]types.ID{types.INT4, types.INT4})
	src.Chunk(0).WriteI32(0, 10)
	src.Chunk(1).WriteI32(0, 20)
	src.FinalizeAll()

	if err := mt.Write(src); err != nil {
		t.Fatal(err)
	}
	row, ok := mt.Reader().Next()
	if !ok {
		t.Fatal("expected one row")
	}
	if row[0].(int32) != 20 || row[1].(int32) != 10 {
		t.Fatalf("projection mismatch: got %v", row)
	}
}

func TestWriteTypeMismatchLeavesTableUnchanged(t *testing.T) {
	schema := types.NewSchema(types.Column{Name: "a", Type: types.INT4})
	mt := New(schema, nil)

	bad := page.New([]types.ID{types.FLOAT4})
	bad.Chunk(0).WriteF32(0, 1.0)
	bad.FinalizeAll()

	if err := mt.Write(bad); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if mt.RowNum() != 0 {
		t.Fatalf("row num = %d, want 0 after failed write", mt.RowNum())
	}
}
