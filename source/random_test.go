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

package source

import (
	"testing"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

func TestRandomSourceSmallBatch(t *testing.T) {
	s := NewRandomSource([]types.ID{types.INT4, types.FLOAT4}, 5, 1)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if p.ValueCount() != 5 {
		t.Fatalf("value count = %d, want 5", p.ValueCount())
	}
	if p.ChunkNum() != 2 {
		t.Fatalf("chunk num = %d, want 2", p.ChunkNum())
	}

	p2, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if p2.ValueCount() != 0 {
		t.Fatalf("second next value count = %d, want 0", p2.ValueCount())
	}

	// repeated calls after exhaustion keep returning zero
	p3, _ := s.Next()
	if p3.ValueCount() != 0 {
		t.Fatal("expected exhaustion to persist across calls")
	}
}

func TestRandomSourceFullBatch(t *testing.T) {
	s := NewRandomSource([]types.ID{types.INT4, types.FLOAT4}, page.RowBatchSize, 2)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if p.ValueCount() != page.RowBatchSize {
		t.Fatalf("value count = %d, want %d", p.ValueCount(), page.RowBatchSize)
	}

	p2, _ := s.Next()
	if p2.ValueCount() != 0 {
		t.Fatalf("next value count = %d, want 0", p2.ValueCount())
	}
}
