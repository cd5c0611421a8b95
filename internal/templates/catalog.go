package templates

import (
	"strconv"

	"github.com/rcliao/molecule-lab/internal/model"
)

func at(id, element string, x, y, z float64) model.Atom {
	return model.Atom{ID: id, Element: element, X: x, Y: y, Z: z}
}

// chain builds bonds b1..bn from (from, to, kind) triples.
func chain(links ...[3]string) []model.Bond {
	out := make([]model.Bond, len(links))
	for i, l := range links {
		out[i] = model.Bond{
			ID:   "b" + strconv.Itoa(i+1),
			From: l[0],
			To:   l[1],
			Kind: model.BondKind(l[2]),
		}
	}
	return out
}

const (
	single   = string(model.BondSingle)
	double   = string(model.BondDouble)
	aromatic = string(model.BondAromatic)
)

// Hotkeys repeat across templates (M, C); ByHotkey returns the first.
var static = []Template{
	{
		ID:          "methyl-group",
		Name:        "Methyl Group (-CH3)",
		Category:    CategoryFunctionalGroup,
		Description: "A methyl group is an alkyl derived from methane, containing one carbon atom bonded to three hydrogen atoms.",
		Hotkey:      "M",
		Tags:        []string{"alkyl", "methane", "organic", "basic"},
		Difficulty:  DifficultyBeginner,
		Notes: []string{
			"The methyl group is the simplest alkyl group",
			"Carbon forms four single bonds (tetrahedral geometry)",
		},
		Atoms: []model.Atom{
			at("c1", "C", 0, 0, 0),
			at("h1", "H", 1.09, 0, 0),
			at("h2", "H", -0.545, 0.945, 0),
			at("h3", "H", -0.545, -0.945, 0),
		},
		Bonds: chain(
			[3]string{"c1", "h1", single},
			[3]string{"c1", "h2", single},
			[3]string{"c1", "h3", single},
		),
	},
	{
		ID:          "hydroxyl-group",
		Name:        "Hydroxyl Group (-OH)",
		Category:    CategoryFunctionalGroup,
		Description: "A hydroxyl group consists of an oxygen atom covalently bonded to a hydrogen atom.",
		Hotkey:      "H",
		Tags:        []string{"hydroxyl", "alcohol", "polar", "hydrogen-bonding"},
		Difficulty:  DifficultyBeginner,
		Atoms: []model.Atom{
			at("o1", "O", 0, 0, 0),
			at("h1", "H", 0.96, 0, 0),
		},
		Bonds: chain([3]string{"o1", "h1", single}),
	},
	{
		ID:          "carbonyl-group",
		Name:        "Carbonyl Group (C=O)",
		Category:    CategoryFunctionalGroup,
		Description: "A carbonyl group is a carbon atom double-bonded to an oxygen atom.",
		Hotkey:      "C",
		Tags:        []string{"carbonyl", "double-bond", "polar", "aldehyde", "ketone"},
		Difficulty:  DifficultyIntermediate,
		Atoms: []model.Atom{
			at("c1", "C", -0.6, 0, 0),
			at("o1", "O", 0.6, 0, 0),
		},
		Bonds: chain([3]string{"c1", "o1", double}),
	},
	{
		ID:          "carboxyl-group",
		Name:        "Carboxyl Group (-COOH)",
		Category:    CategoryFunctionalGroup,
		Description: "A carboxyl group is a carbonyl and a hydroxyl attached to the same carbon atom.",
		Hotkey:      "R",
		Tags:        []string{"carboxyl", "acid", "polar", "hydrogen-bonding"},
		Difficulty:  DifficultyIntermediate,
		Atoms: []model.Atom{
			at("c1", "C", 0, 0, 0),
			at("o1", "O", 1.2, 0, 0),
			at("o2", "O", -0.6, 1.04, 0),
			at("h1", "H", -1.56, 1.04, 0),
		},
		Bonds: chain(
			[3]string{"c1", "o1", double},
			[3]string{"c1", "o2", single},
			[3]string{"o2", "h1", single},
		),
	},
	{
		ID:          "amine-group",
		Name:        "Amine Group (-NH2)",
		Category:    CategoryFunctionalGroup,
		Description: "An amine group is a nitrogen atom bonded to two hydrogen atoms.",
		Hotkey:      "N",
		Tags:        []string{"amine", "basic", "nitrogen", "lone-pair"},
		Difficulty:  DifficultyIntermediate,
		Atoms: []model.Atom{
			at("n1", "N", 0, 0, 0),
			at("h1", "H", 1.01, 0, 0),
			at("h2", "H", -0.505, 0.875, 0),
		},
		Bonds: chain(
			[3]string{"n1", "h1", single},
			[3]string{"n1", "h2", single},
		),
	},
	{
		ID:          "benzene-ring",
		Name:        "Benzene Ring (C6H6)",
		Category:    CategoryRing,
		Description: "Benzene is an aromatic hydrocarbon with a planar hexagonal ring structure.",
		Hotkey:      "B",
		Tags:        []string{"aromatic", "benzene", "ring", "delocalized"},
		Difficulty:  DifficultyAdvanced,
		Atoms: []model.Atom{
			at("c1", "C", 1.4, 0, 0),
			at("c2", "C", 0.7, 1.21, 0),
			at("c3", "C", -0.7, 1.21, 0),
			at("c4", "C", -1.4, 0, 0),
			at("c5", "C", -0.7, -1.21, 0),
			at("c6", "C", 0.7, -1.21, 0),
			at("h1", "H", 2.49, 0, 0),
			at("h2", "H", 1.24, 2.16, 0),
			at("h3", "H", -1.24, 2.16, 0),
			at("h4", "H", -2.49, 0, 0),
			at("h5", "H", -1.24, -2.16, 0),
			at("h6", "H", 1.24, -2.16, 0),
		},
		Bonds: chain(
			[3]string{"c1", "c2", aromatic},
			[3]string{"c2", "c3", aromatic},
			[3]string{"c3", "c4", aromatic},
			[3]string{"c4", "c5", aromatic},
			[3]string{"c5", "c6", aromatic},
			[3]string{"c6", "c1", aromatic},
			[3]string{"c1", "h1", single},
			[3]string{"c2", "h2", single},
			[3]string{"c3", "h3", single},
			[3]string{"c4", "h4", single},
			[3]string{"c5", "h5", single},
			[3]string{"c6", "h6", single},
		),
	},
	{
		ID:          "cyclohexane-chair",
		Name:        "Cyclohexane (Chair)",
		Category:    CategoryRing,
		Description: "Cyclohexane in chair conformation, the most stable conformation.",
		Hotkey:      "C",
		Tags:        []string{"cyclohexane", "chair", "conformation", "alicyclic"},
		Difficulty:  DifficultyAdvanced,
		Atoms: []model.Atom{
			at("c1", "C", 0, 1.5, 0.5),
			at("c2", "C", 1.3, 0.75, -0.5),
			at("c3", "C", 1.3, -0.75, 0.5),
			at("c4", "C", 0, -1.5, -0.5),
			at("c5", "C", -1.3, -0.75, 0.5),
			at("c6", "C", -1.3, 0.75, -0.5),
			at("h1a", "H", 0, 1.5, 1.5),
			at("h1e", "H", 0, 2.4, 0),
			at("h2a", "H", 2.2, 0.75, -0.5),
			at("h2e", "H", 1.3, 0.75, -1.5),
		},
		Bonds: chain(
			[3]string{"c1", "c2", single},
			[3]string{"c2", "c3", single},
			[3]string{"c3", "c4", single},
			[3]string{"c4", "c5", single},
			[3]string{"c5", "c6", single},
			[3]string{"c6", "c1", single},
			[3]string{"c1", "h1a", single},
			[3]string{"c1", "h1e", single},
			[3]string{"c2", "h2a", single},
			[3]string{"c2", "h2e", single},
		),
	},
	{
		ID:          "water",
		Name:        "Water (H2O)",
		Category:    CategoryBasicMolecule,
		Description: "Water molecule with bent geometry due to lone pairs on oxygen.",
		Hotkey:      "W",
		Tags:        []string{"water", "polar", "hydrogen-bonding", "bent"},
		Difficulty:  DifficultyBeginner,
		Notes: []string{
			"Bent geometry (104.5° bond angle)",
			"Forms hydrogen bonds",
		},
		Atoms: []model.Atom{
			at("o1", "O", 0, 0, 0),
			at("h1", "H", 0.96, 0, 0),
			at("h2", "H", -0.24, 0.93, 0),
		},
		Bonds: chain(
			[3]string{"o1", "h1", single},
			[3]string{"o1", "h2", single},
		),
	},
	{
		ID:          "methane",
		Name:        "Methane (CH4)",
		Category:    CategoryBasicMolecule,
		Description: "Methane is the simplest hydrocarbon with tetrahedral geometry.",
		Hotkey:      "M",
		Tags:        []string{"methane", "alkane", "tetrahedral", "hydrocarbon"},
		Difficulty:  DifficultyBeginner,
		Notes: []string{
			"Perfect tetrahedral geometry (109.5° bond angles)",
			"Main component of natural gas",
		},
		Atoms: []model.Atom{
			at("c1", "C", 0, 0, 0),
			at("h1", "H", 1.09, 1.09, 1.09),
			at("h2", "H", -1.09, -1.09, 1.09),
			at("h3", "H", -1.09, 1.09, -1.09),
			at("h4", "H", 1.09, -1.09, -1.09),
		},
		Bonds: chain(
			[3]string{"c1", "h1", single},
			[3]string{"c1", "h2", single},
			[3]string{"c1", "h3", single},
			[3]string{"c1", "h4", single},
		),
	},
	{
		ID:          "ammonia",
		Name:        "Ammonia (NH3)",
		Category:    CategoryBasicMolecule,
		Description: "Ammonia with trigonal pyramidal geometry due to lone pair on nitrogen.",
		Hotkey:      "A",
		Tags:        []string{"ammonia", "trigonal-pyramidal", "base", "nitrogen"},
		Difficulty:  DifficultyBeginner,
		Atoms: []model.Atom{
			at("n1", "N", 0, 0, 0),
			at("h1", "H", 1.01, 0, 0),
			at("h2", "H", -0.505, 0.875, 0),
			at("h3", "H", -0.505, -0.875, 0),
		},
		Bonds: chain(
			[3]string{"n1", "h1", single},
			[3]string{"n1", "h2", single},
			[3]string{"n1", "h3", single},
		),
	},
	{
		ID:          "ethanol",
		Name:        "Ethanol (C2H5OH)",
		Category:    CategoryBasicMolecule,
		Description: "Ethanol is a simple alcohol with both nonpolar and polar regions.",
		Hotkey:      "E",
		Tags:        []string{"ethanol", "alcohol", "polar", "organic"},
		Difficulty:  DifficultyIntermediate,
		Atoms: []model.Atom{
			at("c1", "C", -0.77, 0, 0),
			at("c2", "C", 0.77, 0, 0),
			at("o1", "O", 1.43, 1.1, 0),
			at("h1", "H", -1.32, 0.89, 0),
			at("h2", "H", -1.32, -0.89, 0),
			at("h3", "H", -1.32, 0, 1.54),
			at("h4", "H", 1.32, -0.89, 0),
			at("h5", "H", 1.32, 0.89, 0),
			at("h6", "H", 2.08, 1.1, 0),
		},
		Bonds: chain(
			[3]string{"c1", "c2", single},
			[3]string{"c2", "o1", single},
			[3]string{"c1", "h1", single},
			[3]string{"c1", "h2", single},
			[3]string{"c1", "h3", single},
			[3]string{"c2", "h4", single},
			[3]string{"c2", "h5", single},
			[3]string{"o1", "h6", single},
		),
	},
	{
		ID:          "glucose",
		Name:        "Glucose (C6H12O6)",
		Category:    CategoryBiomolecule,
		Description: "Glucose is a simple sugar and primary energy source for cells. Simplified linear form.",
		Hotkey:      "G",
		Tags:        []string{"glucose", "sugar", "carbohydrate", "energy"},
		Difficulty:  DifficultyAdvanced,
		Atoms: []model.Atom{
			at("c1", "C", 0, 0, 0),
			at("c2", "C", 1.5, 0, 0),
			at("c3", "C", 3, 0, 0),
			at("c4", "C", 4.5, 0, 0),
			at("c5", "C", 6, 0, 0),
			at("c6", "C", 7.5, 0, 0),
			at("o1", "O", 1.5, 1.2, 0),
			at("o2", "O", 3, 1.2, 0),
			at("o3", "O", 4.5, 1.2, 0),
			at("o4", "O", 6, 1.2, 0),
			at("o5", "O", 7.5, 1.2, 0),
			at("o6", "O", 8.5, 0, 0),
		},
		Bonds: chain(
			[3]string{"c1", "c2", single},
			[3]string{"c2", "c3", single},
			[3]string{"c3", "c4", single},
			[3]string{"c4", "c5", single},
			[3]string{"c5", "c6", single},
			[3]string{"c2", "o1", single},
			[3]string{"c3", "o2", single},
			[3]string{"c4", "o3", single},
			[3]string{"c5", "o4", single},
			[3]string{"c6", "o5", single},
			[3]string{"c6", "o6", single},
		),
	},
	{
		ID:          "caffeine",
		Name:        "Caffeine (C8H10N4O2)",
		Category:    CategoryDrug,
		Description: "Caffeine is a stimulant found in coffee, tea and energy drinks. Simplified skeleton.",
		Hotkey:      "F",
		Tags:        []string{"caffeine", "stimulant", "alkaloid", "xanthine"},
		Difficulty:  DifficultyAdvanced,
		Atoms: []model.Atom{
			at("c1", "C", 0, 0, 0),
			at("c2", "C", 1.4, 0, 0),
			at("c3", "C", 2.1, 1.2, 0),
			at("c4", "C", 1.4, 2.4, 0),
			at("c5", "C", 0, 2.4, 0),
			at("c6", "C", -0.7, 1.2, 0),
			at("n1", "N", 0.7, 1.2, 0),
			at("n2", "N", 2.1, 2.4, 0),
			at("n3", "N", -0.7, 2.4, 0),
			at("o1", "O", 2.8, 1.2, 0),
			at("o2", "O", -1.4, 1.2, 0),
		},
		Bonds: chain(
			[3]string{"c1", "c2", single},
			[3]string{"c2", "c3", single},
			[3]string{"c3", "c4", single},
			[3]string{"c4", "c5", single},
			[3]string{"c5", "c6", single},
			[3]string{"c6", "c1", single},
			[3]string{"c1", "n1", single},
			[3]string{"c3", "n2", single},
			[3]string{"c5", "n3", single},
			[3]string{"c3", "o1", double},
			[3]string{"c6", "o2", double},
		),
	},
}
