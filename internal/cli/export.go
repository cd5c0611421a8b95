package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export molecules as JSON",
		Long:  "Export every live molecule version as a JSON array. Filter by namespace with -n.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	molecules, err := s.ExportAll(cmd.Context(), nsFlag)
	if err != nil {
		exitErr("export", err)
	}

	render(cmd, molecules, nil)
}
