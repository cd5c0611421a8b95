package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/fingerprint"
	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "similar [file]",
		Short: "Rank stored molecules by structural similarity",
		Long: `Rank stored molecules by fingerprint similarity to a reference molecule,
blended with recency. The reference is a stored key (--key) or molecule JSON
from a file or stdin.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runSimilar,
	}

	cmd.Flags().StringP("key", "k", "", "Reference molecule key")
	cmd.Flags().String("kind", fingerprint.KindComposition, "Fingerprint: composition or atom_pair")
	cmd.Flags().IntP("limit", "l", 10, "Max results")
	cmd.Flags().Float64("min", 0, "Minimum similarity")

	RootCmd.AddCommand(cmd)
}

func runSimilar(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	minScore, _ := cmd.Flags().GetFloat64("min")

	p := store.SimilarParams{
		NS:       namespace(),
		Key:      key,
		Kind:     kind,
		Limit:    limit,
		MinScore: minScore,
	}
	if key == "" {
		atoms, bonds, err := readScene(cmd, args)
		if err != nil {
			exitErr("similar", err)
		}
		p.Atoms, p.Bonds = atoms, bonds
		p.NS = nsFlag
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Similar(cmd.Context(), p)
	if err != nil {
		exitErr("similar", err)
	}

	render(cmd, results, func(w io.Writer) {
		for _, r := range results {
			fmt.Fprintf(w, "%.3f  %s/%s  %s\n", r.Similarity, r.NS, r.Key, r.Formula)
		}
	})
}
