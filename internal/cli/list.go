package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List molecules",
		Long:  "List the latest version of each molecule. Without --ns all namespaces are listed.",
		Run:   runList,
	}

	cmd.Flags().String("formula", "", "Filter by exact formula")
	cmd.Flags().StringP("tags", "t", "", "Filter by tags (comma-separated)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("keys-only", false, "Only output ns/key pairs")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	formula, _ := cmd.Flags().GetString("formula")
	tagsStr, _ := cmd.Flags().GetString("tags")
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	molecules, err := s.List(cmd.Context(), store.ListParams{
		NS:      nsFlag,
		Formula: formula,
		Tags:    parseTags(tagsStr),
		Limit:   limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		for _, m := range molecules {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", m.NS, m.Key)
		}
		return
	}

	render(cmd, molecules, func(w io.Writer) {
		for _, m := range molecules {
			fmt.Fprintf(w, "%s/%s v%d  %s\n", m.NS, m.Key, m.Version, m.Formula)
		}
	})
}
