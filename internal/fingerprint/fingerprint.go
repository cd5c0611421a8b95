// Package fingerprint turns molecules into fixed-length count vectors for
// similarity ranking.
package fingerprint

import (
	"fmt"
	"math"

	"github.com/rcliao/molecule-lab/internal/model"
)

// Vector is a float32 fingerprint vector.
type Vector = []float32

// Kinds of fingerprint.
const (
	KindComposition = "composition"
	KindAtomPair    = "atom_pair"
)

// Elements and BondKinds fix the vector layout.
var (
	Elements  = []string{"C", "H", "N", "O", "S", "P", "Cl", "Br"}
	BondKinds = []model.BondKind{
		model.BondSingle, model.BondDouble, model.BondTriple,
		model.BondIonic, model.BondHydrogen, model.BondDative, model.BondAromatic,
	}
)

// Fingerprinter computes fingerprints of a single kind.
type Fingerprinter interface {
	Fingerprint(atoms []model.Atom, bonds []model.Bond) Vector
	Dims() int
	Kind() string
}

// CosineSimilarity computes cosine similarity between two vectors.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func elementIndex(symbol string) int {
	for i, e := range Elements {
		if e == symbol {
			return i
		}
	}
	return -1
}

// --- Composition ---

// Composition counts atoms per element followed by bonds per kind.
type Composition struct{}

func (Composition) Fingerprint(atoms []model.Atom, bonds []model.Bond) Vector {
	v := make(Vector, len(Elements)+len(BondKinds))
	for _, a := range atoms {
		if i := elementIndex(a.Element); i >= 0 {
			v[i]++
		}
	}
	for _, b := range bonds {
		for i, k := range BondKinds {
			if b.Kind == k {
				v[len(Elements)+i]++
				break
			}
		}
	}
	return v
}

func (Composition) Dims() int    { return len(Elements) + len(BondKinds) }
func (Composition) Kind() string { return KindComposition }

// --- Atom pairs ---

// AtomPair counts bonded element pairs (C-H, C-O, ...), one slot per
// unordered pair of known elements.
type AtomPair struct{}

func pairSlot(i, j int) int {
	if i > j {
		i, j = j, i
	}
	n := len(Elements)
	// row-major upper triangle including the diagonal
	return i*n - i*(i-1)/2 + (j - i)
}

func (AtomPair) Fingerprint(atoms []model.Atom, bonds []model.Bond) Vector {
	v := make(Vector, AtomPair{}.Dims())
	elem := make(map[string]int, len(atoms))
	for _, a := range atoms {
		elem[a.ID] = elementIndex(a.Element)
	}
	for _, b := range bonds {
		i, okI := elem[b.From]
		j, okJ := elem[b.To]
		if !okI || !okJ || i < 0 || j < 0 {
			continue
		}
		v[pairSlot(i, j)]++
	}
	return v
}

func (AtomPair) Dims() int {
	n := len(Elements)
	return n * (n + 1) / 2
}

func (AtomPair) Kind() string { return KindAtomPair }

// --- Factory ---

// New returns the fingerprinter for kind. An empty kind selects composition.
func New(kind string) (Fingerprinter, error) {
	switch kind {
	case "", KindComposition:
		return Composition{}, nil
	case KindAtomPair:
		return AtomPair{}, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint kind %q", kind)
	}
}

// Of returns the composition fingerprint of a molecule.
func Of(atoms []model.Atom, bonds []model.Bond) Vector {
	return Composition{}.Fingerprint(atoms, bonds)
}
