package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/happyhackingspace/arcfilter/model"
	"github.com/happyhackingspace/arcfilter/sentence"
	"github.com/happyhackingspace/arcfilter/taboo"
)

func parse(line string) *sentence.Sentence {
	return sentence.Parse(line, sentence.ParseOptions{})
}

func roleVector(role model.Role, v float32) []float32 {
	w := make([]float32, model.LinearWidth)
	w[role] = v
	return w
}

func passAllQuad() *model.QuadWeights {
	q := model.NewQuadWeights()
	q.Set("bias", []float32{1})
	return q
}

func neutralPairs() *model.PairWeights {
	p := model.NewPairWeights()
	p.Set("bias", []float32{1, 0})
	return p
}

func TestFormat(t *testing.T) {
	a := &Arcs{Heads: [][]int{nil, {0, 2}, nil, {1}}}

	if got, want := FormatPlain(a), "0,2\t\t1"; got != want {
		t.Errorf("FormatPlain = %q, want %q", got, want)
	}
	if got, want := FormatIndexed(a), "1:0,2\t3:1"; got != want {
		t.Errorf("FormatIndexed = %q, want %q", got, want)
	}
	if got := FormatPlain(&Arcs{Heads: [][]int{nil}}); got != "" {
		t.Errorf("FormatPlain(root only) = %q, want empty", got)
	}
	if got := FormatIndexed(&Arcs{Heads: [][]int{nil, nil}}); got != "" {
		t.Errorf("FormatIndexed(no heads) = %q, want empty", got)
	}
	if a.Count() != 3 {
		t.Errorf("Count = %d, want 3", a.Count())
	}
	if !a.Contains(2, 1) || a.Contains(1, 2) || a.Contains(0, 0) || a.Contains(0, 9) {
		t.Error("Contains returned unexpected results")
	}
}

func TestRuleFilter(t *testing.T) {
	tests := []struct {
		name  string
		rules *taboo.RuleSet
		line  string
		want  string
	}{
		{
			name:  "taboo head and pair",
			rules: taboo.New(taboo.Rules{TabooHeads: []string{"DT"}, TabooPairs: []string{"hDT<mNN"}}),
			line:  "The_DT dog_NN ran_VBD",
			want:  "1:0,2,3\t2:0,3\t3:0,2",
		},
		{
			name:  "default rules",
			rules: taboo.Default(),
			line:  "The_DT dog_NN ran_VBD",
			want:  "1:2,3\t2:0,3\t3:0,1,2",
		},
		{
			name:  "no rules",
			rules: taboo.Empty(),
			line:  "a_X b_Y",
			want:  "1:0,2\t2:0,1",
		},
		{
			name:  "no-left and no-right heads",
			rules: taboo.New(taboo.Rules{NoLeftHead: []string{"POS"}, NoRightHead: []string{"RP"}}),
			line:  "a_X 's_POS up_RP",
			want:  "1:0,2,3\t2:3\t3:0,1,2",
		},
		{
			name:  "every token taboo",
			rules: taboo.New(taboo.Rules{TabooHeads: []string{"X"}}),
			line:  "a_X b_X",
			want:  "1:0\t2:0",
		},
		{
			name:  "empty sentence",
			rules: taboo.Default(),
			line:  "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewRuleFilter(tt.rules)
			arcs, err := f.Apply(parse(tt.line))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got := f.Format(arcs); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTabooVetoIsAbsolute(t *testing.T) {
	rules := taboo.New(taboo.Rules{TabooHeads: []string{"DT"}, TabooPairs: []string{"mNN<hVBD"}})
	s := parse("The_DT dog_NN ran_VBD")

	ultra, err := NewUltraFilter(model.NewLinearWeights(), neutralPairs(), rules)
	if err != nil {
		t.Fatalf("NewUltraFilter: %v", err)
	}
	filters := map[string]Filter{
		"rule":  NewRuleFilter(rules),
		"quad":  NewQuadFilter(rules, model.NewLinearWeights(), passAllQuad()),
		"ultra": ultra,
	}
	for name, f := range filters {
		arcs, err := f.Apply(s)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for mod := 1; mod < s.Len(); mod++ {
			if arcs.Contains(1, mod) {
				t.Errorf("%s: taboo head 1 kept for modifier %d", name, mod)
			}
		}
		if arcs.Contains(3, 2) {
			t.Errorf("%s: taboo pair 3->2 kept", name)
		}
		if !arcs.Contains(0, 2) {
			t.Errorf("%s: arc 0->2 dropped", name)
		}
	}
}

func TestQuadSubsetOfRule(t *testing.T) {
	lines := []string{
		"The_DT dog_NN ran_VBD",
		"He_PRP said_VBD ,_, `_`` it_PRP 's_VBZ up_RP ._.",
		"There_EX is_VBZ a_DT cat_NN 's_POS toy_NN",
	}
	rules := taboo.Default()
	rf := NewRuleFilter(rules)
	qf := NewQuadFilter(rules, model.NewLinearWeights(), passAllQuad())

	for _, line := range lines {
		s := parse(line)
		r, err := rf.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		q, err := qf.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		for mod := 1; mod < s.Len(); mod++ {
			for _, h := range q.Candidates(mod) {
				if !r.Contains(h, mod) {
					t.Errorf("%q: quad kept %d->%d which rules dropped", line, h, mod)
				}
			}
		}
		// With an empty linear model and a pass-all quadratic model the two
		// filters agree.
		if r.Count() != q.Count() {
			t.Errorf("%q: rule kept %d arcs, quad kept %d", line, r.Count(), q.Count())
		}
	}
}

func TestQuadFilter(t *testing.T) {
	s := parse("a_X b_Y c_Z")

	t.Run("field per modifier", func(t *testing.T) {
		f := NewQuadFilter(taboo.Empty(), model.NewLinearWeights(), passAllQuad())
		arcs, err := f.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		out := f.Format(arcs)
		if got := len(strings.Split(out, "\t")); got != s.Len()-1 {
			t.Errorf("got %d fields, want %d", got, s.Len()-1)
		}
		if out != "0,2,3\t0,1,3\t0,1,2" {
			t.Errorf("got %q", out)
		}
	})

	t.Run("rejecting model keeps empty fields", func(t *testing.T) {
		q := model.NewQuadWeights()
		q.Set("bias", []float32{-1})
		f := NewQuadFilter(taboo.Empty(), model.NewLinearWeights(), q)
		arcs, err := f.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := f.Format(arcs); got != "\t\t" {
			t.Errorf("got %q, want two tabs", got)
		}
	})

	t.Run("learned head role", func(t *testing.T) {
		lin := model.NewLinearWeights()
		lin.Set("hY", roleVector(model.RoleHead, 1))
		f := NewQuadFilter(taboo.Empty(), lin, passAllQuad())
		arcs, err := f.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := f.Format(arcs), "0,3\t0,1,3\t0,1"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("learned left-1 role", func(t *testing.T) {
		lin := model.NewLinearWeights()
		lin.Set("hZ", roleVector(model.RoleLeft1, 1))
		f := NewQuadFilter(taboo.Empty(), lin, passAllQuad())
		arcs, err := f.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := arcs.Candidates(3); len(got) != 1 || got[0] != 2 {
			t.Errorf("heads of 3 = %v, want [2]", got)
		}
	})
}

func TestQuadRootVeto(t *testing.T) {
	lin := model.NewLinearWeights()
	lin.Set("P3", roleVector(model.RoleRoot, 1))
	f := NewQuadFilter(taboo.Empty(), lin, passAllQuad())

	arcs, err := f.Apply(parse("a_X b_Y c_Z d_W e_V"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		head, mod int
		want      bool
	}{
		{1, 5, false}, // spans root candidate 3
		{2, 4, false},
		{4, 2, false},
		{0, 1, false}, // only root candidates attach to the root
		{0, 5, false},
		{0, 3, true},
		{2, 1, true},
		{3, 1, true},
		{4, 5, true},
		{3, 5, true},
	}
	for _, tt := range tests {
		if got := arcs.Contains(tt.head, tt.mod); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.head, tt.mod, got, tt.want)
		}
	}
}

func TestQuadRestrictionPrecedence(t *testing.T) {
	all := model.RoleFlags{true, true, true, true, true, true, true, true}

	tests := []struct {
		name  string
		rules taboo.Rules
		want  restriction
	}{
		{
			name:  "no rule",
			rules: taboo.Rules{},
			want:  restriction{true, false, true, true, true, true, true, true},
		},
		{
			name:  "no-right rule",
			rules: taboo.Rules{NoRightHead: []string{"T"}},
			want:  restriction{true, false, false, true, true, true, false, false},
		},
		{
			name:  "no-left rule",
			rules: taboo.Rules{NoLeftHead: []string{"T"}},
			want:  restriction{true, false, true, false, false, false, true, true},
		},
		{
			name:  "both rules",
			rules: taboo.Rules{NoLeftHead: []string{"T"}, NoRightHead: []string{"T"}},
			want:  restriction{true, false, true, false, false, true, false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quadRestriction("T", taboo.New(tt.rules), all)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	// A rule is never cleared by a false model decision.
	got := quadRestriction("T", taboo.New(taboo.Rules{TabooHeads: []string{"T"}, NoLeftHead: []string{"T"}}), model.RoleFlags{})
	if !got[model.RoleHead] || !got[model.RoleNoLeft] {
		t.Errorf("rule flags cleared: %v", got)
	}
}

func TestUltraFilter(t *testing.T) {
	s := parse("The_DT dog_NN ran_VBD fast_RB")

	tests := []struct {
		name   string
		linear map[string][]float32
		pairs  map[string][]float32
		keep   [][2]int
		drop   [][2]int
	}{
		{
			name: "neutral model keeps everything",
			keep: [][2]int{{0, 1}, {2, 1}, {4, 1}, {1, 4}, {3, 4}, {0, 3}},
		},
		{
			name:  "arc score beats none score",
			pairs: map[string][]float32{"hDT<mNN": {-1, 0.5}},
			keep:  [][2]int{{3, 2}, {0, 2}},
			drop:  [][2]int{{1, 2}},
		},
		{
			name:  "pair score scaled by distance",
			pairs: map[string][]float32{"mDT<hNN": {0, 0.5}, "mDT<hRB": {0, 0.5}},
			keep:  [][2]int{{2, 1}, {3, 1}},
			drop:  [][2]int{{4, 1}},
		},
		{
			name:   "head score",
			linear: map[string][]float32{"hDT": roleVector(model.RoleHead, 2)},
			keep:   [][2]int{{0, 1}, {2, 1}},
			drop:   [][2]int{{1, 2}, {1, 3}, {1, 4}},
		},
		{
			name:   "root score",
			linear: map[string][]float32{"hVBD": roleVector(model.RoleRoot, 2)},
			keep:   [][2]int{{0, 3}, {1, 2}, {3, 4}, {3, 1}},
			drop:   [][2]int{{0, 1}, {0, 4}, {2, 4}, {4, 2}, {1, 4}},
		},
		{
			name:   "left-1 score",
			linear: map[string][]float32{"hRB": roleVector(model.RoleLeft1, 2)},
			keep:   [][2]int{{3, 4}},
			drop:   [][2]int{{0, 4}, {1, 4}, {2, 4}},
		},
		{
			name:   "no-right score",
			linear: map[string][]float32{"hDT": roleVector(model.RoleNoRight, 2)},
			keep:   [][2]int{{0, 1}},
			drop:   [][2]int{{2, 1}, {3, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lin := model.NewLinearWeights()
			for k, v := range tt.linear {
				lin.Set(k, v)
			}
			pairs := neutralPairs()
			for k, v := range tt.pairs {
				pairs.Set(k, v)
			}
			f, err := NewUltraFilter(lin, pairs, nil)
			if err != nil {
				t.Fatal(err)
			}
			arcs, err := f.Apply(s)
			if err != nil {
				t.Fatal(err)
			}
			for _, a := range tt.keep {
				if !arcs.Contains(a[0], a[1]) {
					t.Errorf("arc %d->%d dropped", a[0], a[1])
				}
			}
			for _, a := range tt.drop {
				if arcs.Contains(a[0], a[1]) {
					t.Errorf("arc %d->%d kept", a[0], a[1])
				}
			}
			if got := len(strings.Split(f.Format(arcs), "\t")); got != s.Len()-1 {
				t.Errorf("got %d fields, want %d", got, s.Len()-1)
			}
		})
	}
}

func TestUltraFilterNoBias(t *testing.T) {
	_, err := NewUltraFilter(model.NewLinearWeights(), model.NewPairWeights(), nil)
	if !errors.Is(err, model.ErrNoBias) {
		t.Errorf("err = %v, want ErrNoBias", err)
	}
}

func TestIdempotent(t *testing.T) {
	s := parse("He_PRP said_VBD it_PRP 's_VBZ up_RP ._.")
	ultra, err := NewUltraFilter(model.NewLinearWeights(), neutralPairs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Filter{
		NewRuleFilter(taboo.Default()),
		NewQuadFilter(taboo.Default(), model.NewLinearWeights(), passAllQuad()),
		ultra,
	} {
		a1, err := f.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		a2, err := f.Apply(s)
		if err != nil {
			t.Fatal(err)
		}
		if f.Format(a1) != f.Format(a2) {
			t.Errorf("%T: output differs between runs", f)
		}
	}
}

func TestSentenceLength(t *testing.T) {
	tokens := func(n int) []sentence.Token {
		ts := make([]sentence.Token, n)
		for i := range ts {
			ts[i] = sentence.Token{Word: "x", Tag: "X", Head: sentence.NoHead}
		}
		return ts
	}

	rf := NewRuleFilter(taboo.New(taboo.Rules{TabooHeads: []string{"X"}}))

	s := sentence.FromTokens(tokens(sentence.MaxSize - 1)...)
	if s.Len() != sentence.MaxSize {
		t.Fatalf("Len = %d", s.Len())
	}
	if _, err := rf.Apply(s); err != nil {
		t.Errorf("length %d: %v", s.Len(), err)
	}

	s = sentence.FromTokens(tokens(sentence.MaxSize)...)
	ultra, err := NewUltraFilter(model.NewLinearWeights(), neutralPairs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Filter{rf, NewQuadFilter(taboo.Empty(), model.NewLinearWeights(), passAllQuad()), ultra} {
		if _, err := f.Apply(s); !errors.Is(err, ErrSentenceTooLong) {
			t.Errorf("%T: err = %v, want ErrSentenceTooLong", f, err)
		}
	}
}
