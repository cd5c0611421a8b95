package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/editor"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
)

func init() {
	bondsCmd := &cobra.Command{
		Use:   "bonds",
		Short: "Bond inference and validation",
	}

	inferCmd := &cobra.Command{
		Use:   "infer [file]",
		Short: "Infer single bonds from atom distances",
		Long:  "Reads atoms and replaces any bonds with single bonds between every pair closer than the bond threshold.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runBondsInfer,
	}
	inferCmd.Flags().Bool("reconcile", false, "Keep existing in-range bonds and add single bonds for the remaining pairs")

	optionsCmd := &cobra.Command{
		Use:   "options [file]",
		Short: "List the bond types a pair of atoms can form",
		Args:  cobra.MaximumNArgs(1),
		Run:   runBondsOptions,
	}
	optionsCmd.Flags().String("from", "", "First atom id (required)")
	optionsCmd.Flags().String("to", "", "Second atom id (required)")
	optionsCmd.MarkFlagRequired("from")
	optionsCmd.MarkFlagRequired("to")

	bondsCmd.AddCommand(inferCmd, optionsCmd)
	RootCmd.AddCommand(bondsCmd)
}

func runBondsInfer(cmd *cobra.Command, args []string) {
	reconcile, _ := cmd.Flags().GetBool("reconcile")

	atoms, bonds, err := readScene(cmd, args)
	if err != nil {
		exitErr("bonds infer", err)
	}

	gen := ids.NewSequence("b")
	if reconcile {
		bonds = bonding.Reconcile(atoms, bonds, gen)
	} else {
		bonds = bonding.InferBonds(atoms, gen)
	}

	scene := editor.NewScene(atoms, bonds)
	render(cmd, scene, func(w io.Writer) {
		for _, b := range scene.Bonds {
			fmt.Fprintf(w, "%s  %s-%s  %s\n", b.ID, b.From, b.To, b.Kind)
		}
	})
}

func runBondsOptions(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	atoms, bonds, err := readScene(cmd, args)
	if err != nil {
		exitErr("bonds options", err)
	}

	a, ok := model.FindAtom(atoms, from)
	if !ok {
		exitErr("bonds options", fmt.Errorf("%w: %s", editor.ErrUnknownAtom, from))
	}
	b, ok := model.FindAtom(atoms, to)
	if !ok {
		exitErr("bonds options", fmt.Errorf("%w: %s", editor.ErrUnknownAtom, to))
	}

	out := struct {
		From     string           `json:"from"`
		To       string           `json:"to"`
		Distance float64          `json:"distance"`
		Types    []model.BondKind `json:"types"`
	}{
		From:     from,
		To:       to,
		Distance: bonding.Distance(a, b),
		Types:    bonding.AvailableBondTypes(a, b, bonds),
	}
	render(cmd, out, func(w io.Writer) {
		for _, k := range out.Types {
			fmt.Fprintln(w, k)
		}
	})
}
