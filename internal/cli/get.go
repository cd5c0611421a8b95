package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/model"
	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a molecule",
		Run:   runGet,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.Flags().Bool("history", false, "Return all versions (newest first)")
	cmd.Flags().IntP("version", "v", 0, "Specific version number")
	cmd.Flags().Bool("links", false, "Include relations of the returned version")

	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")
	withLinks, _ := cmd.Flags().GetBool("links")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	molecules, err := s.Get(cmd.Context(), store.GetParams{
		NS:      namespace(),
		Key:     key,
		History: history,
		Version: version,
	})
	if err != nil {
		exitErr("get", err)
	}

	text := func(w io.Writer) {
		for _, m := range molecules {
			fmt.Fprintf(w, "%s/%s v%d  %s  %.3f g/mol  %d atoms, %d bonds\n",
				m.NS, m.Key, m.Version, m.Formula, m.Weight, len(m.Atoms), len(m.Bonds))
		}
	}

	if history || len(molecules) > 1 {
		render(cmd, molecules, text)
		return
	}
	if withLinks {
		links, err := s.GetLinks(cmd.Context(), molecules[0].ID)
		if err != nil {
			exitErr("get links", err)
		}
		out := struct {
			Molecule model.Molecule `json:"molecule"`
			Links    []store.Link   `json:"links"`
		}{molecules[0], links}
		render(cmd, out, text)
		return
	}
	render(cmd, molecules[0], text)
}
