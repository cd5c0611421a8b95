package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a molecule against the octet and bonding rules",
		Long: `Reads {"atoms": [...], "bonds": [...]} JSON from a file or stdin (or a stored
molecule with --key) and reports octet, bonding and charge-balance warnings
with suggested fixes. Exits non-zero with --strict when the molecule does
not validate.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runValidate,
	}

	cmd.Flags().String("key", "", "Validate a stored molecule instead of input")
	cmd.Flags().Bool("strict", false, "Exit 1 when the molecule does not validate")

	RootCmd.AddCommand(cmd)
}

type validateResult struct {
	bonding.ValidationResult
	Summary bonding.ValidationSummary `json:"summary"`
}

func runValidate(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	strict, _ := cmd.Flags().GetBool("strict")

	var res bonding.ValidationResult
	if key != "" {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		mols, err := s.Get(cmd.Context(), store.GetParams{NS: namespace(), Key: key})
		if err != nil {
			exitErr("validate", err)
		}
		res = bonding.Validate(mols[0].Atoms, mols[0].Bonds)
	} else {
		atoms, bonds, err := readScene(cmd, args)
		if err != nil {
			exitErr("validate", err)
		}
		res = bonding.Validate(atoms, bonds)
	}

	out := validateResult{ValidationResult: res, Summary: res.Summary()}
	render(cmd, out, func(w io.Writer) {
		if res.Valid {
			fmt.Fprintln(w, "valid")
		} else {
			fmt.Fprintln(w, "invalid")
		}
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "  [%s] %s: %s\n", warn.Severity, warn.Kind, warn.Message)
		}
		for _, sg := range res.Suggestions {
			fmt.Fprintf(w, "  suggest %s on %s: %s (%s)\n", sg.Kind, sg.AtomID, sg.Action, sg.Reason)
		}
	})

	if strict && !res.Valid {
		exitErr("validate", fmt.Errorf("%d warnings", len(res.Warnings)))
	}
}
