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

package plan

import (
	"errors"
	"testing"

	"github.com/vectorql/vq/expr"
	"github.com/vectorql/vq/source"
	"github.com/vectorql/vq/types"
)

func testDataset() Dataset {
	schema := types.NewSchema(
		types.Column{Name: "a", Type: types.INT4},
		types.Column{Name: "b", Type: types.FLOAT8},
	)
	return NewDataset(source.KindRandom, schema)
}

// TestBuilderStackSoundness exercises P6: Build returns Ok iff, after
// every combinator call, exactly one operator remains on the stack.
func TestBuilderStackSoundness(t *testing.T) {
	ds := testDataset()
	pred := &expr.Comp{Op: expr.OpLT, LHS: &expr.Field{Name: "a"}, RHS: &expr.Const{Value: expr.DatumInt(types.INT4, 10)}}

	t.Run("well-formed sequence succeeds", func(t *testing.T) {
		op, err := NewBuilder().Dataset(ds).Filter(pred).Head(5).Build()
		if err != nil {
			t.Fatalf("Build() error = %v, want nil", err)
		}
		if _, ok := op.(*Head); !ok {
			t.Fatalf("Build() = %T, want *Head", op)
		}
	})

	t.Run("empty builder fails with ErrEmptyStack", func(t *testing.T) {
		_, err := NewBuilder().Build()
		if !errors.Is(err, ErrEmptyStack) {
			t.Fatalf("Build() error = %v, want ErrEmptyStack", err)
		}
	})

	t.Run("combinator on empty stack fails with ErrEmptyStack", func(t *testing.T) {
		_, err := NewBuilder().Filter(pred).Build()
		if !errors.Is(err, ErrEmptyStack) {
			t.Fatalf("Build() error = %v, want ErrEmptyStack", err)
		}
	})

	t.Run("unconsumed leftover fails with ErrStillRemainStackItem", func(t *testing.T) {
		_, err := NewBuilder().Dataset(ds).Dataset(ds).Filter(pred).Build()
		if !errors.Is(err, ErrStillRemainStackItem) {
			t.Fatalf("Build() error = %v, want ErrStillRemainStackItem", err)
		}
	})

	t.Run("join consumes both pushed operands", func(t *testing.T) {
		op, err := NewBuilder().Dataset(ds).Dataset(ds).Join(InnerJoin, pred).Build()
		if err != nil {
			t.Fatalf("Build() error = %v, want nil", err)
		}
		j, ok := op.(*Join)
		if !ok {
			t.Fatalf("Build() = %T, want *Join", op)
		}
		if j.Left == nil || j.Right == nil {
			t.Fatalf("Join has nil operand: left=%v right=%v", j.Left, j.Right)
		}
	})

	t.Run("error latches and further calls are no-ops", func(t *testing.T) {
		b := NewBuilder()
		b.Filter(pred)       // latches ErrEmptyStack
		b.Dataset(ds)        // must be a no-op despite the latched error
		b.Head(1)            // must be a no-op too
		_, err := b.Build()
		if !errors.Is(err, ErrEmptyStack) {
			t.Fatalf("Build() error = %v, want ErrEmptyStack (latched)", err)
		}
	})
}

// TestLiteralBuildSequence reproduces the spec's literal scenario 6:
// dataset(T).filter(p).project(e).build() == Project(Filter(Scan(T),p),e).
func TestLiteralBuildSequence(t *testing.T) {
	ds := testDataset()
	pred := &expr.Comp{Op: expr.OpLT, LHS: &expr.Field{Name: "a"}, RHS: &expr.Const{Value: expr.DatumInt(types.INT4, 10)}}
	proj := &expr.Field{Name: "b"}

	op, err := NewBuilder().Dataset(ds).Filter(pred).Project(proj).Build()
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}

	p, ok := op.(*Project)
	if !ok {
		t.Fatalf("root = %T, want *Project", op)
	}
	if len(p.Exprs) != 1 || p.Exprs[0] != proj {
		t.Fatalf("Project.Exprs = %v, want [%v]", p.Exprs, proj)
	}

	f, ok := p.Child.(*Filter)
	if !ok {
		t.Fatalf("Project.Child = %T, want *Filter", p.Child)
	}
	if len(f.Predicates) != 1 || f.Predicates[0] != pred {
		t.Fatalf("Filter.Predicates = %v, want [%v]", f.Predicates, pred)
	}

	s, ok := f.Child.(*Scan)
	if !ok {
		t.Fatalf("Filter.Child = %T, want *Scan", f.Child)
	}
	if s.Dataset.ID != ds.ID {
		t.Fatalf("Scan.Dataset = %v, want %v", s.Dataset, ds)
	}

	t.Run("extra unconsumed dataset fails", func(t *testing.T) {
		_, err := NewBuilder().Dataset(ds).Dataset(ds).Filter(pred).Project(proj).Build()
		if !errors.Is(err, ErrStillRemainStackItem) {
			t.Fatalf("Build() error = %v, want ErrStillRemainStackItem", err)
		}
	})
}

// TestJSONRoundTrip checks the logical-plan JSON surface is lossless
// for operator topology, expression shape, and scalar arguments.
func TestJSONRoundTrip(t *testing.T) {
	ds := testDataset()
	pred := &expr.Bool{
		Op: expr.OpAnd,
		Children: []expr.Node{
			&expr.Comp{Op: expr.OpLT, LHS: &expr.Field{Name: "a"}, RHS: &expr.Const{Value: expr.DatumInt(types.INT4, 10)}},
			&expr.Comp{Op: expr.OpGE, LHS: &expr.Field{Name: "b"}, RHS: &expr.Const{Value: expr.DatumFloat64(0.5)}},
		},
	}
	proj := []expr.Node{
		&expr.Field{Name: "a"},
		&expr.Arithm{Op: expr.OpMul, LHS: &expr.Field{Name: "b"}, RHS: &expr.Const{Value: expr.DatumFloat64(2)}},
	}

	root, err := NewBuilder().Dataset(ds).Filter(pred).Project(proj...).Head(100).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	data, err := EncodeJSON(root)
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}

	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	wantDescribe := Describe(root)
	gotDescribe := Describe(decoded)
	if gotDescribe != wantDescribe {
		t.Fatalf("round trip mismatch:\nwant:\n%s\ngot:\n%s", wantDescribe, gotDescribe)
	}

	h, ok := decoded.(*Head)
	if !ok {
		t.Fatalf("decoded root = %T, want *Head", decoded)
	}
	if h.N != 100 {
		t.Fatalf("decoded Head.N = %d, want 100", h.N)
	}

	pr, ok := h.Child.(*Project)
	if !ok {
		t.Fatalf("decoded Head.Child = %T, want *Project", h.Child)
	}
	if len(pr.Exprs) != 2 {
		t.Fatalf("decoded Project.Exprs has %d entries, want 2", len(pr.Exprs))
	}

	fl, ok := pr.Child.(*Filter)
	if !ok {
		t.Fatalf("decoded Project.Child = %T, want *Filter", pr.Child)
	}
	b, ok := fl.Predicates[0].(*expr.Bool)
	if !ok || b.Op != expr.OpAnd || len(b.Children) != 2 {
		t.Fatalf("decoded predicate = %#v, want AND of 2 comparisons", fl.Predicates[0])
	}

	sc, ok := fl.Child.(*Scan)
	if !ok {
		t.Fatalf("decoded Filter.Child = %T, want *Scan", fl.Child)
	}
	if sc.Dataset.ID != ds.ID || sc.Dataset.Kind != ds.Kind {
		t.Fatalf("decoded Scan.Dataset = %+v, want id/kind matching %+v", sc.Dataset, ds)
	}
	if sc.Dataset.Schema.Len() != ds.Schema.Len() {
		t.Fatalf("decoded schema has %d columns, want %d", sc.Dataset.Schema.Len(), ds.Schema.Len())
	}
	for i, ty := range sc.Dataset.Schema.Types() {
		if ty != ds.Schema.Types()[i] {
			t.Fatalf("decoded schema[%d] = %s, want %s", i, ty, ds.Schema.Types()[i])
		}
	}
}

func TestDescribeIndentsByDepth(t *testing.T) {
	ds := testDataset()
	root, err := NewBuilder().Dataset(ds).Head(3).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got := Describe(root)
	want := "Head(3)\n\tScan(" + ds.ID.String() + ", kind=random)\n"
	if got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
}
