// Package model defines the core molecule data types.
package model

import "time"

// Atom is a placed atom in a scene.
type Atom struct {
	ID      string  `json:"id"`
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Color   string  `json:"color"`
}

// BondKind tags the chemical nature of a bond.
type BondKind string

const (
	BondSingle   BondKind = "single"
	BondDouble   BondKind = "double"
	BondTriple   BondKind = "triple"
	BondIonic    BondKind = "ionic"
	BondHydrogen BondKind = "hydrogen"
	BondDative   BondKind = "dative"
	BondAromatic BondKind = "aromatic"
)

// Bond connects two atoms. From/To form an unordered pair.
type Bond struct {
	ID   string   `json:"id"`
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind BondKind `json:"type"`
}

// Touches reports whether the bond has atomID as an endpoint.
func (b Bond) Touches(atomID string) bool {
	return b.From == atomID || b.To == atomID
}

// Other returns the endpoint opposite atomID.
func (b Bond) Other(atomID string) string {
	if b.From == atomID {
		return b.To
	}
	return b.From
}

// Key returns the unordered pair key of the bond's endpoints.
func (b Bond) Key() string {
	return PairKey(b.From, b.To)
}

// PairKey returns a canonical key for an unordered pair of atom ids.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Molecule is a persisted, versioned molecule.
type Molecule struct {
	ID             string     `json:"id"`
	NS             string     `json:"ns"`
	Key            string     `json:"key"`
	Formula        string     `json:"formula"`
	Weight         float64    `json:"weight"`
	Atoms          []Atom     `json:"atoms"`
	Bonds          []Bond     `json:"bonds"`
	Tags           []string   `json:"tags,omitempty"`
	Version        int        `json:"version"`
	Supersedes     string     `json:"supersedes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	AccessCount    int        `json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	Meta           string     `json:"meta,omitempty"`
}

// HistoryRecord is one persisted edit-history snapshot of a molecule.
type HistoryRecord struct {
	ID          string    `json:"id"`
	MoleculeID  string    `json:"molecule_id"`
	Seq         int       `json:"seq"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Atoms       []Atom    `json:"atoms"`
	Bonds       []Bond    `json:"bonds"`
}

// ValidElements are the element symbols a user may place.
var ValidElements = map[string]bool{
	"H":  true,
	"C":  true,
	"N":  true,
	"O":  true,
	"S":  true,
	"P":  true,
	"Cl": true,
	"Br": true,
}

// ValidBondKinds are the allowed bond kind tags.
var ValidBondKinds = map[BondKind]bool{
	BondSingle:   true,
	BondDouble:   true,
	BondTriple:   true,
	BondIonic:    true,
	BondHydrogen: true,
	BondDative:   true,
	BondAromatic: true,
}

// CloneAtoms returns a copy of atoms that shares no backing array.
func CloneAtoms(atoms []Atom) []Atom {
	if atoms == nil {
		return []Atom{}
	}
	out := make([]Atom, len(atoms))
	copy(out, atoms)
	return out
}

// CloneBonds returns a copy of bonds that shares no backing array.
func CloneBonds(bonds []Bond) []Bond {
	if bonds == nil {
		return []Bond{}
	}
	out := make([]Bond, len(bonds))
	copy(out, bonds)
	return out
}

// FindAtom returns the atom with the given id.
func FindAtom(atoms []Atom, id string) (Atom, bool) {
	for _, a := range atoms {
		if a.ID == id {
			return a, true
		}
	}
	return Atom{}, false
}
