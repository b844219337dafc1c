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

package eval

import (
	"golang.org/x/exp/slices"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/kernel"
	"github.com/vectorql/vq/page"
	"github.com/vectorql/vq/types"
	"github.com/vectorql/vq/vector"
)

// FilterEval is a bound predicate evaluator that produces a dense,
// ascending, duplicate-free selection of row indices rather than a
// Vector.
type FilterEval interface {
	Bind(schema types.Schema) error
	Eval(p *page.Page) ([]uint32, error)
}

// filterEval materialises a selection from a boolean MapEval's
// result, reusing one backing slice across calls.
type filterEval struct {
	pred MapEval
	sel  []uint32
}

// FilterCompiler compiles a predicate expression into a FilterEval by
// compiling it as a boolean MapEval and scanning its result vector
// for true positions.
type FilterCompiler struct {
	mc *MapCompiler
}

// NewFilterCompiler builds a FilterCompiler over the given primitive
// table.
func NewFilterCompiler(tbl *kernel.Table) *FilterCompiler {
	return &FilterCompiler{mc: NewMapCompiler(tbl)}
}

// Compile translates the predicate n into an unbound FilterEval.
func (fc *FilterCompiler) Compile(n expr.Node) (FilterEval, error) {
	pred, err := fc.mc.Compile(n)
	if err != nil {
		return nil, err
	}
	return &filterEval{pred: pred}, nil
}

func (f *filterEval) Bind(schema types.Schema) error {
	if err := f.pred.Bind(schema); err != nil {
		return err
	}
	if f.pred.Type() != types.BOOL {
		return &TypeMismatchError{At: "Filter", Lhs: types.BOOL, Rhs: f.pred.Type()}
	}
	return nil
}

func (f *filterEval) Eval(p *page.Page) ([]uint32, error) {
	v, err := f.pred.Eval(p)
	if err != nil {
		return nil, err
	}
	n := p.ValueCount()
	f.sel = f.sel[:0]
	if cv, ok := v.(*vector.ConstVector); ok {
		if cv.Bool() {
			for i := 0; i < n; i++ {
				f.sel = append(f.sel, uint32(i))
			}
		}
		return f.sel, nil
	}
	av := v.(*vector.ArrayVector)
	mp := av.MiniPage()
	for i := 0; i < n; i++ {
		if mp.ReadBool(i) {
			f.sel = append(f.sel, uint32(i))
		}
	}
	return f.sel, nil
}

// MultiFilterEval conjoins several FilterEvals, the way a Filter
// operator's CNF predicate list is meant to compose: a row survives
// only if every predicate's selection includes it.
type MultiFilterEval struct {
	preds []FilterEval
	out   []uint32
}

// NewMultiFilterEval builds a FilterEval computing the intersection
// of each of preds' selections. An empty preds list selects every
// row.
func NewMultiFilterEval(preds ...FilterEval) *MultiFilterEval {
	return &MultiFilterEval{preds: preds}
}

func (m *MultiFilterEval) Bind(schema types.Schema) error {
	for _, p := range m.preds {
		if err := p.Bind(schema); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiFilterEval) Eval(p *page.Page) ([]uint32, error) {
	if len(m.preds) == 0 {
		out := make([]uint32, p.ValueCount())
		for i := range out {
			out[i] = uint32(i)
		}
		return out, nil
	}

	sel, err := m.preds[0].Eval(p)
	if err != nil {
		return nil, err
	}
	// Each predicate's selection aliases a slice it owns and reuses
	// on its next Eval call, so the running intersection must hold
	// its own backing array rather than keep pointing into sel.
	acc := slices.Clone(sel)
	for _, pred := range m.preds[1:] {
		sel, err := pred.Eval(p)
		if err != nil {
			return nil, err
		}
		acc = intersectSorted(acc, sel)
		if len(acc) == 0 {
			break
		}
	}
	m.out = acc
	return m.out, nil
}

// intersectSorted merges two ascending, duplicate-free selections
// into their intersection, still ascending and duplicate-free.
func intersectSorted(a, b []uint32) []uint32 {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return slices.Clip(out)
}
