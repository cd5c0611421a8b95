package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/bonding"
)

func init() {
	cmd := &cobra.Command{
		Use:   "formula [file]",
		Short: "Compute the formula and weight of a molecule",
		Long:  `Reads {"atoms": [...]} JSON from a file or stdin and prints its molecular formula and weight.`,
		Args:  cobra.MaximumNArgs(1),
		Run:   runFormula,
	}

	RootCmd.AddCommand(cmd)
}

func runFormula(cmd *cobra.Command, args []string) {
	atoms, _, err := readScene(cmd, args)
	if err != nil {
		exitErr("formula", err)
	}

	out := struct {
		Formula string  `json:"formula"`
		Weight  float64 `json:"weight"`
		Atoms   int     `json:"atoms"`
	}{
		Formula: bonding.MolecularFormula(atoms),
		Weight:  math.Round(bonding.MolecularWeight(atoms)*1000) / 1000,
		Atoms:   len(atoms),
	}
	render(cmd, out, func(w io.Writer) {
		fmt.Fprintf(w, "%s  %.3f g/mol\n", out.Formula, out.Weight)
	})
}
