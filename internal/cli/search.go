package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search molecules by keyword",
		Long:  "Search molecule keys, formulas and tags for matching text. Without --ns all namespaces are searched.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		NS:    nsFlag,
		Query: query,
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 && formatFlag != "text" {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}

	render(cmd, results, func(w io.Writer) {
		for _, m := range results {
			fmt.Fprintf(w, "%s/%s  %s\n", m.NS, m.Key, m.Formula)
		}
	})
}
