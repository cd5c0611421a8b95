// Package templates provides the built-in molecule templates: common
// functional groups, rings, small molecules and generated geometries.
package templates

import (
	"strings"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
)

// DefaultBondLength is the center-ligand distance of generated geometries.
const DefaultBondLength = 1.5

// Categories and difficulties.
const (
	CategoryFunctionalGroup = "functional-group"
	CategoryRing            = "ring"
	CategoryBasicMolecule   = "basic-molecule"
	CategoryBiomolecule     = "biomolecule"
	CategoryDrug            = "drug"

	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidCategories lists the known template categories.
var ValidCategories = map[string]bool{
	CategoryFunctionalGroup: true,
	CategoryRing:            true,
	CategoryBasicMolecule:   true,
	CategoryBiomolecule:     true,
	CategoryDrug:            true,
}

// Template is a ready-made atom/bond set. Atom and bond ids are local to the
// template; loading a template into a scene assigns fresh ones.
type Template struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Formula     string       `json:"formula"`
	Weight      float64      `json:"molecular_weight"`
	Hotkey      string       `json:"hotkey,omitempty"`
	Tags        []string     `json:"tags"`
	Difficulty  string       `json:"difficulty"`
	Notes       []string     `json:"educational_notes,omitempty"`
	Atoms       []model.Atom `json:"atoms"`
	Bonds       []model.Bond `json:"bonds"`
}

// FilterParams narrows a template list. Empty fields match everything.
type FilterParams struct {
	Category   string
	Difficulty string
	Tags       []string
}

// Builtin returns the built-in catalog. Generated geometries take their ids
// from gen and use bondLength (DefaultBondLength when <= 0).
func Builtin(gen ids.Generator, bondLength float64) []Template {
	if bondLength <= 0 {
		bondLength = DefaultBondLength
	}
	out := []Template{
		geometric("Triangular Planar", 3, "C", "H", false, gen, bondLength),
		geometric("Pentagonal Planar", 5, "P", "Cl", false, gen, bondLength),
		geometric("Hexagonal Planar", 6, "C", "H", false, gen, bondLength),
		geometric("Heptagonal Planar", 7, "C", "H", false, gen, bondLength),
		geometric("Octagonal Planar", 8, "C", "H", false, gen, bondLength),
		geometric("Trigonal Bipyramidal", 5, "P", "Cl", true, gen, bondLength),
		geometric("Octahedral", 6, "S", "Cl", true, gen, bondLength),
		geometric("Pentagonal Bipyramidal", 7, "P", "Br", true, gen, bondLength),
		geometric("Square Antiprismatic", 8, "S", "Br", true, gen, bondLength),
	}
	for _, t := range static {
		out = append(out, finish(t))
	}
	return out
}

func geometric(name string, sides int, center, outer string, vsepr bool, gen ids.Generator, length float64) Template {
	cfg := geometry.Config{CenterElement: center, OuterElement: outer, BondLength: length}

	var r geometry.Result
	kind := "planar"
	desc := "Planar Polygon"
	if vsepr {
		r = geometry.GenerateVSEPR(sides, cfg, gen)
		kind = "vsepr"
		desc = "3D VSEPR"
	} else {
		r = geometry.GeneratePolygon(sides, cfg, gen)
	}

	lower := strings.ToLower(name)
	return finish(Template{
		ID:          "geo-" + strings.ReplaceAll(lower, " ", "-"),
		Name:        name + " Geometry",
		Category:    CategoryBasicMolecule,
		Description: "A " + lower + " arrangement of atoms (" + desc + ").",
		Tags:        []string{"geometry", lower, kind},
		Difficulty:  DifficultyIntermediate,
		Atoms:       r.Atoms,
		Bonds:       r.Bonds,
	})
}

// finish fills in computed fields and detaches the atom/bond slices.
func finish(t Template) Template {
	t.Atoms = model.CloneAtoms(t.Atoms)
	t.Bonds = model.CloneBonds(t.Bonds)
	t.Tags = append([]string(nil), t.Tags...)
	t.Notes = append([]string(nil), t.Notes...)
	for i, a := range t.Atoms {
		if a.Color == "" {
			t.Atoms[i].Color, _ = bonding.Color(a.Element)
		}
	}
	t.Formula = bonding.MolecularFormula(t.Atoms)
	t.Weight = bonding.MolecularWeight(t.Atoms)
	return t
}

// Filter returns the templates matching p. A template matches Tags when it
// carries any one of them.
func Filter(list []Template, p FilterParams) []Template {
	var out []Template
	for _, t := range list {
		if p.Category != "" && t.Category != p.Category {
			continue
		}
		if p.Difficulty != "" && t.Difficulty != p.Difficulty {
			continue
		}
		if len(p.Tags) > 0 && !anyTag(t.Tags, p.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Search matches query case-insensitively against name, formula,
// description and tags. An empty query returns list unchanged.
func Search(list []Template, query string) []Template {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	var out []Template
	for _, t := range list {
		if matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t Template, q string) bool {
	for _, s := range []string{t.Name, t.Formula, t.Description} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// ByID returns the template with the given id.
func ByID(list []Template, id string) (Template, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ByHotkey returns the first template bound to hotkey.
func ByHotkey(list []Template, hotkey string) (Template, bool) {
	for _, t := range list {
		if t.Hotkey != "" && t.Hotkey == hotkey {
			return t, true
		}
	}
	return Template{}, false
}
