package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/ids"
)

func init() {
	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Generate a polygon or VSEPR geometry",
		Run:   runGeometry,
	}

	cmd.Flags().String("shape", "vsepr", "Shape: polygon or vsepr")
	cmd.Flags().IntP("count", "c", 6, "Number of outer atoms (sides or electron domains)")
	cmd.Flags().String("center", "C", "Center element")
	cmd.Flags().String("outer", "H", "Outer element")
	cmd.Flags().Float64("length", 0, "Bond length (default: config templates.bond_length)")

	RootCmd.AddCommand(cmd)
}

func runGeometry(cmd *cobra.Command, args []string) {
	shape, _ := cmd.Flags().GetString("shape")
	count, _ := cmd.Flags().GetInt("count")
	center, _ := cmd.Flags().GetString("center")
	outer, _ := cmd.Flags().GetString("outer")
	length, _ := cmd.Flags().GetFloat64("length")

	if count < 0 {
		exitErr("geometry", fmt.Errorf("count must not be negative, got %d", count))
	}
	if length <= 0 {
		length = cfg.Templates.BondLength
	}

	gcfg := geometry.Config{CenterElement: center, OuterElement: outer, BondLength: length}
	gen := ids.NewSequence("g")

	var res geometry.Result
	switch shape {
	case "polygon":
		res = geometry.GeneratePolygon(count, gcfg, gen)
	case "vsepr":
		res = geometry.GenerateVSEPR(count, gcfg, gen)
	default:
		exitErr("geometry", fmt.Errorf("unknown shape %q (valid: polygon, vsepr)", shape))
	}

	render(cmd, res, func(w io.Writer) {
		for _, a := range res.Atoms {
			fmt.Fprintf(w, "%-4s %-2s % .3f % .3f % .3f\n", a.ID, a.Element, a.X, a.Y, a.Z)
		}
	})
}
