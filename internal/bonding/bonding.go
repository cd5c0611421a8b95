// Package bonding infers bonds from atom geometry and adjudicates bond kinds
// against valence and electronegativity rules.
//
// Every function is pure: inputs are never mutated and rejected requests are
// reported as false or an empty list, never as errors.
package bonding

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
)

// Distance returns the Euclidean distance between two atoms.
func Distance(a, b model.Atom) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// InferBonds returns a single bond for every pair of atoms closer than
// BondThreshold, scanning pairs in ascending index order.
func InferBonds(atoms []model.Atom, gen ids.Generator) []model.Bond {
	bonds := []model.Bond{}
	seen := map[string]bool{}

	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			if Distance(atoms[i], atoms[j]) >= BondThreshold {
				continue
			}
			key := model.PairKey(atoms[i].ID, atoms[j].ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			bonds = append(bonds, model.Bond{
				ID:   gen.New(),
				From: atoms[i].ID,
				To:   atoms[j].ID,
				Kind: model.BondSingle,
			})
		}
	}
	return bonds
}

// Multiplier returns how many covalent valence units a bond kind consumes.
func Multiplier(kind model.BondKind) int {
	switch kind {
	case model.BondSingle, model.BondDative:
		return 1
	case model.BondDouble:
		return 2
	case model.BondTriple:
		return 3
	default:
		return 0
	}
}

// UsedValence sums the multipliers of all bonds touching atomID.
func UsedValence(atomID string, bonds []model.Bond) int {
	used := 0
	for _, b := range bonds {
		if b.Touches(atomID) {
			used += Multiplier(b.Kind)
		}
	}
	return used
}

// CanFormBond reports whether a bond of the given kind may join a and b
// given the bonds already present.
func CanFormBond(a, b model.Atom, bonds []model.Bond, kind model.BondKind) bool {
	switch kind {
	case model.BondHydrogen, model.BondDative:
		return true
	case model.BondIonic:
		diff := math.Abs(Electronegativity(a.Element) - Electronegativity(b.Element))
		return diff >= IonicThreshold
	case model.BondSingle, model.BondDouble, model.BondTriple:
		m := Multiplier(kind)
		return UsedValence(a.ID, bonds)+m <= Valence(a.Element) &&
			UsedValence(b.ID, bonds)+m <= Valence(b.Element)
	default:
		return false
	}
}

var pickerOrder = []model.BondKind{
	model.BondHydrogen,
	model.BondDative,
	model.BondSingle,
	model.BondDouble,
	model.BondTriple,
	model.BondIonic,
}

// AvailableBondTypes lists the bond kinds CanFormBond currently permits for a pair.
func AvailableBondTypes(a, b model.Atom, bonds []model.Bond) []model.BondKind {
	available := []model.BondKind{}
	for _, k := range pickerOrder {
		if CanFormBond(a, b, bonds, k) {
			available = append(available, k)
		}
	}
	return available
}

// UpdateBondsOnMove drops bonds touching atomID whose other endpoint is now
// missing or out of range. Bonds not touching atomID are kept as-is.
func UpdateBondsOnMove(atomID string, atoms []model.Atom, bonds []model.Bond) []model.Bond {
	moved, ok := model.FindAtom(atoms, atomID)
	if !ok {
		return model.CloneBonds(bonds)
	}

	out := []model.Bond{}
	for _, b := range bonds {
		if !b.Touches(atomID) {
			out = append(out, b)
			continue
		}
		other, ok := model.FindAtom(atoms, b.Other(atomID))
		if !ok {
			continue
		}
		if Distance(moved, other) < BondThreshold {
			out = append(out, b)
		}
	}
	return out
}

// RemoveAtom returns the scene without atomID and without any bond touching it.
func RemoveAtom(atomID string, atoms []model.Atom, bonds []model.Bond) ([]model.Atom, []model.Bond) {
	outAtoms := []model.Atom{}
	for _, a := range atoms {
		if a.ID != atomID {
			outAtoms = append(outAtoms, a)
		}
	}
	outBonds := []model.Bond{}
	for _, b := range bonds {
		if !b.Touches(atomID) {
			outBonds = append(outBonds, b)
		}
	}
	return outAtoms, outBonds
}

// Prune keeps only bonds whose endpoints both exist and lie within
// BondThreshold. Surviving bonds keep their kind.
func Prune(atoms []model.Atom, bonds []model.Bond) []model.Bond {
	byID := make(map[string]model.Atom, len(atoms))
	for _, a := range atoms {
		byID[a.ID] = a
	}

	out := []model.Bond{}
	for _, b := range bonds {
		from, ok1 := byID[b.From]
		to, ok2 := byID[b.To]
		if !ok1 || !ok2 {
			continue
		}
		if Distance(from, to) < BondThreshold {
			out = append(out, b)
		}
	}
	return out
}

// Reconcile prunes invalid bonds and adds inferred single bonds for every
// in-range pair that has none.
func Reconcile(atoms []model.Atom, bonds []model.Bond, gen ids.Generator) []model.Bond {
	out := Prune(atoms, bonds)
	existing := make(map[string]bool, len(out))
	for _, b := range out {
		existing[b.Key()] = true
	}
	for _, b := range InferBonds(atoms, gen) {
		if !existing[b.Key()] {
			out = append(out, b)
		}
	}
	return out
}

// MolecularFormula returns a Hill-like formula: carbon first, hydrogen
// second, then the rest alphabetically. Counts of 1 are omitted.
func MolecularFormula(atoms []model.Atom) string {
	counts := map[string]int{}
	for _, a := range atoms {
		counts[a.Element]++
	}

	elements := make([]string, 0, len(counts))
	for e := range counts {
		elements = append(elements, e)
	}
	sort.Slice(elements, func(i, j int) bool {
		return formulaRank(elements[i], elements[j])
	})

	var sb strings.Builder
	for _, e := range elements {
		sb.WriteString(e)
		if counts[e] > 1 {
			sb.WriteString(strconv.Itoa(counts[e]))
		}
	}
	return sb.String()
}

func formulaRank(a, b string) bool {
	for _, first := range []string{"C", "H"} {
		if a == first {
			return b != first
		}
		if b == first {
			return false
		}
	}
	return a < b
}

// MolecularWeight sums the atomic weights of all atoms.
func MolecularWeight(atoms []model.Atom) float64 {
	total := 0.0
	for _, a := range atoms {
		total += AtomicWeight(a.Element)
	}
	return total
}
