package bonding

const (
	// BondThreshold is the distance below which two atoms are considered bonded.
	BondThreshold = 2.5

	// IonicThreshold is the minimum electronegativity difference for an ionic bond.
	IonicThreshold = 1.7
)

var valence = map[string]int{
	"H":  1,
	"C":  4,
	"N":  3,
	"O":  2,
	"S":  2,
	"P":  3,
	"Cl": 1,
	"Br": 1,
}

// Pauling-like scale.
var electronegativity = map[string]float64{
	"H":  2.1,
	"C":  2.55,
	"N":  3.04,
	"O":  3.44,
	"S":  2.58,
	"P":  2.19,
	"Cl": 3.16,
	"Br": 2.96,
}

var atomicWeight = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"S":  32.06,
	"P":  30.974,
	"Cl": 35.45,
	"Br": 79.904,
}

// CPK colors.
var cpkColor = map[string]string{
	"H":  "#FFFFFF",
	"C":  "#909090",
	"N":  "#3050F8",
	"O":  "#FF0D0D",
	"S":  "#FFFF30",
	"P":  "#FF8000",
	"Cl": "#1FF01F",
	"Br": "#A62929",
}

// Valence returns the covalent capacity of an element, 0 if unknown.
func Valence(element string) int {
	return valence[element]
}

// Electronegativity returns the element's electronegativity, 0 if unknown.
func Electronegativity(element string) float64 {
	return electronegativity[element]
}

// AtomicWeight returns the element's atomic weight, 0 if unknown.
func AtomicWeight(element string) float64 {
	return atomicWeight[element]
}

// Color returns the CPK color for an element and whether one is known.
func Color(element string) (string, bool) {
	c, ok := cpkColor[element]
	return c, ok
}
