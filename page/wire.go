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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/vectorql/vq/align"
	"github.com/vectorql/vq/types"
)

// wireRaw and wireCompressed distinguish a raw payload from an
// s2-compressed one in
// the single flag byte that prefixes every encoded page.
const (
	wireRaw        byte = 0
	wireCompressed byte = 1
)

// Encode serializes p per the stable page wire layout used by the
// snapshot test corpus: a leading compression flag byte, then
// column count (u32), value_count (u32), and per column a type tag
// (u8), byte length (u32), and the column's bytes padded to a
// 16-byte boundary. When compress is true the body (everything after
// the flag byte) is wrapped in S2 block compression.
func Encode(p *Page, compress bool) []byte {
	var body bytes.Buffer
	writeU32(&body, uint32(p.ChunkNum()))
	writeU32(&body, uint32(p.valueCount))
	for _, c := range p.chunks {
		encodeChunk(&body, c, p.valueCount)
	}

	if !compress {
		return append([]byte{wireRaw}, body.Bytes()...)
	}
	compressed := s2.Encode(nil, body.Bytes())
	return append([]byte{wireCompressed}, compressed...)
}

func encodeChunk(dst *bytes.Buffer, c *MiniPage, valueCount int) {
	dst.WriteByte(byte(c.typ))
	var raw []byte
	if c.typ == types.TEXT {
		var buf bytes.Buffer
		for i := 0; i < valueCount; i++ {
			s := c.ReadText(i)
			writeU32(&buf, uint32(len(s)))
			buf.WriteString(s)
		}
		raw = buf.Bytes()
	} else {
		raw = c.buf[:c.width*valueCount]
	}
	writeU32(dst, uint32(len(raw)))
	dst.Write(raw)
	pad := int(align.Up(len(raw), Alignment)) - len(raw)
	for i := 0; i < pad; i++ {
		dst.WriteByte(0)
	}
}

// Decode reverses Encode, allocating a fresh owned Page.
func Decode(data []byte) (*Page, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("page: short buffer")
	}
	flag, body := data[0], data[1:]
	if flag == wireCompressed {
		decoded, err := s2.Decode(nil, body)
		if err != nil {
			return nil, fmt.Errorf("page: s2 decompress: %w", err)
		}
		body = decoded
	}

	r := bytes.NewReader(body)
	columnCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("page: reading column count: %w", err)
	}
	valueCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("page: reading value count: %w", err)
	}

	chunks := make([]*MiniPage, columnCount)
	for i := range chunks {
		c, err := decodeChunk(r, int(valueCount))
		if err != nil {
			return nil, fmt.Errorf("page: decoding column %d: %w", i, err)
		}
		chunks[i] = c
	}
	p := &Page{chunks: chunks, valueCount: int(valueCount), owned: true}
	return p, nil
}

func decodeChunk(r *bytes.Reader, valueCount int) (*MiniPage, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	typ := types.ID(tagByte)
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid type tag %d", tagByte)
	}
	byteLen, err := readU32(r)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, byteLen)
	if _, err := r.Read(raw); err != nil {
		return nil, err
	}
	padded := int(align.Up(int(byteLen), Alignment))
	if padded > int(byteLen) {
		if _, err := r.Seek(int64(padded-int(byteLen)), 1); err != nil {
			return nil, err
		}
	}

	mp := NewMiniPage(typ)
	if typ == types.TEXT {
		br := bytes.NewReader(raw)
		for i := 0; i < valueCount; i++ {
			n, err := readU32(br)
			if err != nil {
				return nil, err
			}
			buf := make([]byte, n)
			if _, err := br.Read(buf); err != nil {
				return nil, err
			}
			mp.WriteText(i, string(buf))
		}
	} else {
		copy(mp.buf, raw)
		mp.cursor = valueCount
	}
	mp.Finalize()
	return mp, nil
}

func writeU32(dst *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	dst.Write(b[:])
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
