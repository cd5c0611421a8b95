package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the stored edit history of a molecule",
		Long:  "Show the edit history saved with a molecule version by `edit --save`.",
		Run:   runHistory,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.Flags().IntP("version", "v", 0, "Molecule version (default: latest)")

	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	molecules, err := s.Get(cmd.Context(), store.GetParams{NS: namespace(), Key: key, Version: version})
	if err != nil {
		exitErr("history", err)
	}

	records, err := s.History(cmd.Context(), molecules[0].ID)
	if err != nil {
		exitErr("history", err)
	}

	now := time.Now()
	render(cmd, records, func(w io.Writer) {
		for _, r := range records {
			fmt.Fprintf(w, "%3d  %-16s %-32s %s\n", r.Seq, r.Action, r.Description, history.FormatAge(r.Timestamp, now))
		}
	})
}
