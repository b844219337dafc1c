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
	"fmt"
	"math/rand"

	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
)

// RandomSource is a synthetic InputSource that emits totalRows rows
// of random values across the given types, RowBatchSize at a time.
// It exists only as a reference implementation of the Source
// contract used by tests and is never used in production plans.
type RandomSource struct {
	schema    types.Schema
	totalRows int
	emitted   int
	rng       *rand.Rand
	buf       *page.Page
	opened    bool
}

// NewRandomSource builds a RandomSource over the given column types,
// deterministically seeded so tests are reproducible.
func NewRandomSource(cols []types.ID, totalRows int, seed int64) *RandomSource {
	schemaCols := make([]types.Column, len(cols))
	for i, t := range cols {
		schemaCols[i] = types.Column{Name: fmt.Sprintf("c%d", i), Type: t}
	}
	return &RandomSource{
		schema:    types.NewSchema(schemaCols...),
		totalRows: totalRows,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomSource) Schema() types.Schema { return r.schema }

func (r *RandomSource) Open() error {
	r.buf = page.New(r.schema.Types())
	r.opened = true
	return nil
}

func (r *RandomSource) HasNext() bool {
	return r.opened && r.emitted < r.totalRows
}

func (r *RandomSource) Next() (*page.Page, error) {
	if !r.opened {
		return nil, fmt.Errorf("source: random source used before Open")
	}
	r.buf.ResetAll()
	remaining := r.totalRows - r.emitted
	if remaining <= 0 {
		r.buf.FinalizeAll()
		return r.buf, nil
	}
	n := remaining
	if n > page.RowBatchSize {
		n = page.RowBatchSize
	}
	for row := 0; row < n; row++ {
		for col, t := range r.schema.Types() {
			r.fillCell(r.buf.Chunk(col), t, row)
		}
	}
	r.buf.FinalizeAll()
	r.emitted += n
	return r.buf, nil
}

func (r *RandomSource) fillCell(mp *page.MiniPage, t types.ID, row int) {
	switch t {
	case types.BOOL:
		mp.WriteBool(row, r.rng.Intn(2) == 1)
	case types.INT1:
		mp.WriteI8(row, int8(r.rng.Intn(256)-128))
	case types.INT2:
		mp.WriteI16(row, int16(r.rng.Intn(1<<16)-1<<15))
	case types.INT4:
		mp.WriteI32(row, r.rng.Int31())
	case types.INT8:
		mp.WriteI64(row, r.rng.Int63())
	case types.FLOAT4:
		mp.WriteF32(row, r.rng.Float32())
	case types.FLOAT8:
		mp.WriteF64(row, r.rng.Float64())
	case types.DATE:
		mp.WriteDate(row, page.Date(r.rng.Int63n(40000)))
	case types.TIME:
		mp.WriteTime(row, page.Time(r.rng.Int63n(86400_000_000_000)))
	case types.TIMESTAMP:
		mp.WriteTimestamp(row, page.Timestamp(r.rng.Int63()))
	case types.TEXT:
		mp.WriteText(row, randomWord(r.rng))
	default:
		panic(fmt.Sprintf("source: unsupported random type %s", t))
	}
}

var alphabet = []byte("abcdefghijklmnopqrstuvwxyz")

func randomWord(rng *rand.Rand) string {
	n := 1 + rng.Intn(8)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

func (r *RandomSource) Close() error {
	r.opened = false
	return nil
}
