package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Store a molecule",
		Long:  `Store a molecule. Reads {"atoms": [...], "bonds": [...]} JSON from a file or stdin. Saving an existing key creates a new version.`,
		Args:  cobra.MaximumNArgs(1),
		Run:   runSave,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().String("meta", "", "JSON metadata")

	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runSave(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	tagsStr, _ := cmd.Flags().GetString("tags")
	meta, _ := cmd.Flags().GetString("meta")

	atoms, bonds, err := readScene(cmd, args)
	if err != nil {
		exitErr("save", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mol, err := s.Save(cmd.Context(), store.SaveParams{
		NS:    namespace(),
		Key:   key,
		Atoms: atoms,
		Bonds: bonds,
		Tags:  parseTags(tagsStr),
		Meta:  meta,
	})
	if err != nil {
		exitErr("save", err)
	}

	render(cmd, mol, nil)
}
