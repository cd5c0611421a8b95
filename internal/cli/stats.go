package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	render(cmd, stats, func(w io.Writer) {
		fmt.Fprintf(w, "db:        %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
		fmt.Fprintf(w, "molecules: %s active / %s total\n", humanize.Comma(int64(stats.ActiveMolecules)), humanize.Comma(int64(stats.TotalMolecules)))
		fmt.Fprintf(w, "history:   %s entries\n", humanize.Comma(int64(stats.HistoryEntries)))
		fmt.Fprintf(w, "links:     %s\n", humanize.Comma(int64(stats.Links)))
		for _, ns := range stats.Namespaces {
			fmt.Fprintf(w, "  %-20s %d versions, %d keys\n", ns.NS, ns.Count, ns.Keys)
		}
	})
}
