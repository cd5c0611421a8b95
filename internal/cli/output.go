package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/editor"
	"github.com/rcliao/molecule-lab/internal/model"
)

// render writes v as indented JSON, or through text when --format=text and
// a text renderer is given.
func render(cmd *cobra.Command, v interface{}, text func(w io.Writer)) {
	w := cmd.OutOrStdout()
	if formatFlag == "text" && text != nil {
		text(w)
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// readInput reads the file named by args[0], or stdin when no file (or "-")
// is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return nil, errors.New("input is required (file argument or stdin)")
		}
	}
	return io.ReadAll(in)
}

// readScene parses {"atoms": [...], "bonds": [...]} input. Missing bonds
// decode as empty.
func readScene(cmd *cobra.Command, args []string) ([]model.Atom, []model.Bond, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	var scene editor.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, nil, fmt.Errorf("parse molecule: %w", err)
	}
	return model.CloneAtoms(scene.Atoms), model.CloneBonds(scene.Bonds), nil
}

func parseTags(s string) []string {
	var tags []string
	if s == "" {
		return tags
	}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
