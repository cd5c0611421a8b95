package fingerprint

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rcliao/molecule-lab/internal/model"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float64
		delta    float64
	}{
		{"identical", Vector{1, 0, 0}, Vector{1, 0, 0}, 1.0, 0.001},
		{"orthogonal", Vector{1, 0, 0}, Vector{0, 1, 0}, 0.0, 0.001},
		{"opposite", Vector{1, 0, 0}, Vector{-1, 0, 0}, -1.0, 0.001},
		{"similar", Vector{1, 1, 0}, Vector{1, 0, 0}, 0.707, 0.01},
		{"empty", Vector{}, Vector{}, 0.0, 0.001},
		{"different lengths", Vector{1, 0}, Vector{1, 0, 0}, 0.0, 0.001},
		{"zero vector", Vector{0, 0, 0}, Vector{1, 0, 0}, 0.0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("CosineSimilarity(%v, %v) = %f, want %f (±%f)", tt.a, tt.b, got, tt.expected, tt.delta)
			}
		})
	}
}

func water() ([]model.Atom, []model.Bond) {
	atoms := []model.Atom{
		{ID: "o", Element: "O"},
		{ID: "h1", Element: "H", X: 0.96},
		{ID: "h2", Element: "H", X: -0.24, Y: 0.93},
	}
	bonds := []model.Bond{
		{ID: "b1", From: "o", To: "h1", Kind: model.BondSingle},
		{ID: "b2", From: "h2", To: "o", Kind: model.BondSingle},
	}
	return atoms, bonds
}

func TestComposition(t *testing.T) {
	atoms, bonds := water()
	atoms = append(atoms, model.Atom{ID: "x", Element: "Xe"})

	got := Of(atoms, bonds)
	//          C  H  N  O  S  P Cl Br  sg db tr io hy da ar
	want := Vector{0, 2, 0, 1, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("composition mismatch (-want +got):\n%s", diff)
	}
	if dims := (Composition{}).Dims(); len(got) != dims {
		t.Errorf("expected %d dims, got %d", dims, len(got))
	}
}

func TestAtomPair(t *testing.T) {
	atoms, bonds := water()
	fp := AtomPair{}
	got := fp.Fingerprint(atoms, bonds)
	if len(got) != 36 {
		t.Fatalf("expected 36 dims, got %d", len(got))
	}

	oh := pairSlot(elementIndex("O"), elementIndex("H"))
	if oh != pairSlot(elementIndex("H"), elementIndex("O")) {
		t.Error("pair slot should not depend on order")
	}
	if got[oh] != 2 {
		t.Errorf("expected 2 O-H pairs, got %v", got[oh])
	}
	var total float32
	for _, v := range got {
		total += v
	}
	if total != 2 {
		t.Errorf("expected 2 counted pairs, got %v", total)
	}

	// Bonds pointing at missing atoms are ignored.
	bonds = append(bonds, model.Bond{ID: "b3", From: "o", To: "ghost"})
	if diff := cmp.Diff(got, fp.Fingerprint(atoms, bonds)); diff != "" {
		t.Errorf("dangling bond changed fingerprint:\n%s", diff)
	}
}

func TestPairSlotsAreDistinct(t *testing.T) {
	seen := map[int]bool{}
	for i := range Elements {
		for j := i; j < len(Elements); j++ {
			s := pairSlot(i, j)
			if seen[s] {
				t.Fatalf("slot %d reused for (%d,%d)", s, i, j)
			}
			if s < 0 || s >= (AtomPair{}).Dims() {
				t.Fatalf("slot %d out of range", s)
			}
			seen[s] = true
		}
	}
}

func TestSimilarMoleculesScoreHigher(t *testing.T) {
	atoms, bonds := water()
	peroxide := []model.Atom{
		{ID: "o1", Element: "O"}, {ID: "o2", Element: "O"},
		{ID: "h1", Element: "H"}, {ID: "h2", Element: "H"},
	}
	methane := []model.Atom{
		{ID: "c", Element: "C"},
		{ID: "h1", Element: "H"}, {ID: "h2", Element: "H"},
		{ID: "h3", Element: "H"}, {ID: "h4", Element: "H"},
	}
	w := Of(atoms, bonds)
	p := CosineSimilarity(w, Of(peroxide, nil))
	m := CosineSimilarity(w, Of(methane, nil))
	if p <= m {
		t.Errorf("expected peroxide (%f) closer to water than methane (%f)", p, m)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{"", KindComposition, false},
		{KindComposition, KindComposition, false},
		{KindAtomPair, KindAtomPair, false},
		{"morgan", "", true},
	}
	for _, tt := range tests {
		fp, err := New(tt.kind)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q): expected error", tt.kind)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%q): %v", tt.kind, err)
		}
		if fp.Kind() != tt.want {
			t.Errorf("New(%q).Kind() = %s, want %s", tt.kind, fp.Kind(), tt.want)
		}
	}
}
