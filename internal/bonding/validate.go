package bonding

import (
	"fmt"
	"math"

	"github.com/rcliao/molecule-lab/internal/model"
)

// Severity grades a validation warning.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning kinds.
const (
	WarnIncompleteOctet = "incomplete-octet"
	WarnExpandedOctet   = "expanded-octet"
	WarnHypervalent     = "hypervalent"
	WarnUnusualBond     = "unusual-bond"
	WarnChargeImbalance = "charge-imbalance"
)

// Suggestion kinds.
const (
	SuggestAddHydrogen     = "add-hydrogen"
	SuggestChangeBondOrder = "change-bond-order"
	SuggestAddLonePair     = "add-lone-pair"
)

// Warning flags a structural problem on one atom. Molecule-wide warnings
// carry an empty AtomID.
type Warning struct {
	Kind     string   `json:"type"`
	AtomID   string   `json:"atom_id,omitempty"`
	Element  string   `json:"element,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Suggestion proposes an edit that would resolve a warning.
type Suggestion struct {
	Kind    string `json:"type"`
	AtomID  string `json:"atom_id"`
	Element string `json:"element"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// ValidationResult is the outcome of Validate. Electrons holds each atom's
// octet count (valence electrons plus shared bond electrons) and BondCounts
// the number of covalent or ionic bonds touching it.
type ValidationResult struct {
	Valid       bool           `json:"valid"`
	Warnings    []Warning      `json:"warnings"`
	Suggestions []Suggestion   `json:"suggestions"`
	Electrons   map[string]int `json:"electrons"`
	BondCounts  map[string]int `json:"bond_counts"`
}

// ValidationSummary counts warnings by severity.
type ValidationSummary struct {
	Warnings    int `json:"warnings"`
	High        int `json:"high"`
	Medium      int `json:"medium"`
	Low         int `json:"low"`
	Suggestions int `json:"suggestions"`
}

var valenceElectrons = map[string]int{
	"H":  1,
	"C":  4,
	"N":  5,
	"O":  6,
	"S":  6,
	"P":  5,
	"Cl": 7,
	"Br": 7,
}

// Elements allowed more than eight electrons.
var hypervalent = map[string]bool{"P": true, "S": true, "Cl": true, "Br": true}

// Elements that never need a full octet.
var duet = map[string]bool{"H": true, "Li": true, "Be": true, "B": true}

var maxBonds = map[string]int{
	"H":  1,
	"C":  4,
	"N":  4,
	"O":  2,
	"S":  6,
	"P":  6,
	"Cl": 7,
	"Br": 7,
}

// Elements that plausibly carry a triple bond.
var tripleBonders = map[string]bool{"C": true, "N": true, "O": true, "S": true, "P": true}

var metals = map[string]bool{
	"Li": true, "Na": true, "K": true, "Rb": true, "Cs": true,
	"Be": true, "Mg": true, "Ca": true, "Sr": true, "Ba": true,
	"Al": true, "Ga": true, "In": true, "Sn": true, "Pb": true,
	"Fe": true, "Co": true, "Ni": true, "Cu": true, "Zn": true, "Ag": true, "Au": true,
}

// bondOrder is the number of electrons a bond contributes to each endpoint's
// octet count. Aromatic bonds count one and a half.
func bondOrder(kind model.BondKind) float64 {
	switch kind {
	case model.BondAromatic:
		return 1.5
	case model.BondIonic:
		return 1
	default:
		return float64(Multiplier(kind))
	}
}

// Validate checks every atom against the octet rule and common bonding
// patterns, and checks ionic bonds for charge balance. Atoms of unknown
// elements are counted but not judged. Valid is false when any atom has an
// incomplete octet or a high-severity warning.
func Validate(atoms []model.Atom, bonds []model.Bond) ValidationResult {
	res := ValidationResult{
		Valid:       true,
		Warnings:    []Warning{},
		Suggestions: []Suggestion{},
		Electrons:   make(map[string]int, len(atoms)),
		BondCounts:  make(map[string]int, len(atoms)),
	}

	for _, a := range atoms {
		var order float64
		count := 0
		triple := false
		for _, b := range bonds {
			if !b.Touches(a.ID) || b.Kind == model.BondHydrogen {
				continue
			}
			order += bondOrder(b.Kind)
			count++
			if b.Kind == model.BondTriple {
				triple = true
			}
		}
		res.BondCounts[a.ID] = count

		ve, known := valenceElectrons[a.Element]
		if !known {
			continue
		}
		electrons := ve + int(math.Round(order))
		res.Electrons[a.ID] = electrons

		res.checkOctet(a, electrons)

		if limit := maxBonds[a.Element]; count > limit {
			res.warn(a, WarnUnusualBond, SeverityHigh,
				fmt.Sprintf("%s has %d bonds (max: %d)", a.Element, count, limit))
		}
		if triple && !tripleBonders[a.Element] {
			res.warn(a, WarnUnusualBond, SeverityMedium,
				fmt.Sprintf("%s has a triple bond (unusual)", a.Element))
			res.suggest(a, SuggestChangeBondOrder, "Consider changing bond order",
				"Triple bond is unusual for this element")
		}
	}

	res.checkChargeBalance(atoms, bonds)
	return res
}

func (r *ValidationResult) checkOctet(a model.Atom, electrons int) {
	switch {
	case electrons < 8 && !duet[a.Element]:
		r.warn(a, WarnIncompleteOctet, SeverityMedium,
			fmt.Sprintf("%s has incomplete octet (%d electrons)", a.Element, electrons))
		r.Valid = false
		// Each added hydrogen shares one more electron with the atom.
		r.suggest(a, SuggestAddHydrogen, fmt.Sprintf("Add %d hydrogen atom(s)", 8-electrons),
			"To complete the octet")
	case duet[a.Element] && electrons > 2:
		r.warn(a, WarnExpandedOctet, SeverityHigh,
			fmt.Sprintf("%s has %d electrons (max: 2)", a.Element, electrons))
	case electrons > 8 && hypervalent[a.Element]:
		r.warn(a, WarnHypervalent, SeverityLow,
			fmt.Sprintf("%s is hypervalent (%d electrons)", a.Element, electrons))
		r.suggest(a, SuggestAddLonePair, "Add lone pairs", "To accommodate expanded octet")
	case electrons > 8:
		r.warn(a, WarnExpandedOctet, SeverityHigh,
			fmt.Sprintf("%s has expanded octet (%d electrons)", a.Element, electrons))
	}
}

// checkChargeBalance flags ionic bonds that do not pair a metal with a
// nonmetal somewhere in the molecule.
func (r *ValidationResult) checkChargeBalance(atoms []model.Atom, bonds []model.Bond) {
	var ionic, positive, negative int
	for _, b := range bonds {
		if b.Kind != model.BondIonic {
			continue
		}
		from, ok1 := model.FindAtom(atoms, b.From)
		to, ok2 := model.FindAtom(atoms, b.To)
		if !ok1 || !ok2 {
			continue
		}
		ionic++
		for _, a := range []model.Atom{from, to} {
			if metals[a.Element] {
				positive++
			} else {
				negative++
			}
		}
	}
	if ionic > 0 && (positive == 0 || negative == 0) {
		r.Warnings = append(r.Warnings, Warning{
			Kind:     WarnChargeImbalance,
			Message:  "Ionic compound lacks proper charge balance",
			Severity: SeverityMedium,
		})
	}
}

func (r *ValidationResult) warn(a model.Atom, kind string, sev Severity, msg string) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:     kind,
		AtomID:   a.ID,
		Element:  a.Element,
		Message:  msg,
		Severity: sev,
	})
	if sev == SeverityHigh {
		r.Valid = false
	}
}

func (r *ValidationResult) suggest(a model.Atom, kind, action, reason string) {
	r.Suggestions = append(r.Suggestions, Suggestion{
		Kind:    kind,
		AtomID:  a.ID,
		Element: a.Element,
		Action:  action,
		Reason:  reason,
	})
}

// Summary counts the result's warnings by severity.
func (r ValidationResult) Summary() ValidationSummary {
	s := ValidationSummary{Warnings: len(r.Warnings), Suggestions: len(r.Suggestions)}
	for _, w := range r.Warnings {
		switch w.Severity {
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	return s
}
