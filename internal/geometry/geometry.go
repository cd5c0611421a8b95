// Package geometry generates template atom/bond sets for planar polygons and
// VSEPR coordination geometries.
package geometry

import (
	"math"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
)

const (
	defaultCenterColor = "#909090"
	defaultOuterColor  = "#FFFFFF"

	// Decimal places kept in generated coordinates.
	precision = 3
)

// Config selects the elements and bond length of a generated geometry.
type Config struct {
	CenterElement string  `json:"center_element"`
	OuterElement  string  `json:"outer_element"`
	BondLength    float64 `json:"bond_length"`
	CenterColor   string  `json:"center_color,omitempty"`
	OuterColor    string  `json:"outer_color,omitempty"`
}

// Result is a generated center atom, its ligands and the center-ligand bonds.
// Atoms[0] is always the center.
type Result struct {
	Atoms []model.Atom `json:"atoms"`
	Bonds []model.Bond `json:"bonds"`
}

// GeneratePolygon places sides outer atoms on a circle of radius BondLength
// in the z=0 plane, starting at angle -π/2, each singly bonded to a center
// atom at the origin.
func GeneratePolygon(sides int, cfg Config, gen ids.Generator) Result {
	var dirs []Vec3
	if sides > 0 {
		step := 2 * math.Pi / float64(sides)
		start := -math.Pi / 2
		for i := 0; i < sides; i++ {
			angle := start + float64(i)*step
			dirs = append(dirs, Vec3{math.Cos(angle), math.Sin(angle), 0})
		}
	}
	return build(dirs, cfg, gen)
}

// GenerateVSEPR returns the standard 3D arrangement for the given number of
// electron domains. Three domains is trigonal planar; counts other than
// 3, 5, 6, 7 and 8 fall back to GeneratePolygon.
func GenerateVSEPR(domains int, cfg Config, gen ids.Generator) Result {
	dirs, ok := vseprDirections(domains)
	if !ok {
		return GeneratePolygon(domains, cfg, gen)
	}
	return build(dirs, cfg, gen)
}

func vseprDirections(domains int) ([]Vec3, bool) {
	var dirs []Vec3
	switch domains {
	case 5:
		// trigonal bipyramidal
		dirs = append(dirs, Vec3{0, 1, 0}, Vec3{0, -1, 0})
		dirs = append(dirs, equatorial(3, 0)...)
	case 6:
		// octahedral
		dirs = []Vec3{
			{1, 0, 0}, {-1, 0, 0},
			{0, 1, 0}, {0, -1, 0},
			{0, 0, 1}, {0, 0, -1},
		}
	case 7:
		// pentagonal bipyramidal
		dirs = append(dirs, Vec3{0, 1, 0}, Vec3{0, -1, 0})
		dirs = append(dirs, equatorial(5, 0)...)
	case 8:
		// square antiprism, approximate: top square rotated 45° from bottom
		const h = 0.7
		for _, v := range equatorial(4, 0) {
			dirs = append(dirs, Vec3{v.X, h, v.Z})
		}
		for _, v := range equatorial(4, math.Pi/4) {
			dirs = append(dirs, Vec3{v.X, -h, v.Z})
		}
	default:
		return nil, false
	}
	return dirs, true
}

// equatorial returns n unit vectors evenly spaced in the xz plane.
func equatorial(n int, offset float64) []Vec3 {
	out := make([]Vec3, 0, n)
	for i := 0; i < n; i++ {
		angle := offset + float64(i)*2*math.Pi/float64(n)
		out = append(out, Vec3{math.Cos(angle), 0, math.Sin(angle)})
	}
	return out
}

func build(dirs []Vec3, cfg Config, gen ids.Generator) Result {
	center := model.Atom{
		ID:      gen.New(),
		Element: cfg.CenterElement,
		Color:   colorFor(cfg.CenterElement, cfg.CenterColor, defaultCenterColor),
	}
	res := Result{
		Atoms: []model.Atom{center},
		Bonds: []model.Bond{},
	}
	outerColor := colorFor(cfg.OuterElement, cfg.OuterColor, defaultOuterColor)

	for _, d := range dirs {
		p := d.Normalize().Scale(cfg.BondLength).Round(precision)
		outer := model.Atom{
			ID:      gen.New(),
			Element: cfg.OuterElement,
			X:       p.X,
			Y:       p.Y,
			Z:       p.Z,
			Color:   outerColor,
		}
		res.Atoms = append(res.Atoms, outer)
		res.Bonds = append(res.Bonds, model.Bond{
			ID:   gen.New(),
			From: center.ID,
			To:   outer.ID,
			Kind: model.BondSingle,
		})
	}
	return res
}

func colorFor(element, explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if c, ok := bonding.Color(element); ok {
		return c
	}
	return fallback
}
