package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/editor"
	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/model"
	"github.com/rcliao/molecule-lab/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit [script]",
		Short: "Run an edit script against a scene",
		Long: `Applies newline-delimited JSON edit ops (from a file or stdin) to a fresh
scene and prints the result. Blank lines and lines starting with # are skipped.

  {"op":"place","element":"C"}
  {"op":"place","element":"O","x":1.4}
  {"op":"autocomplete"}
  {"op":"undo"}
  {"op":"command","text":"add 2 hydrogen bonded to oxygen","x":5}

A "validate" op fails when the scene breaks the octet or bonding rules.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runEdit,
	}

	cmd.Flags().String("template", "", "Start from a built-in template (id or hotkey)")
	cmd.Flags().String("from", "", "Start from a stored molecule key")
	cmd.Flags().String("save", "", "Save the final scene and its history under this key")
	cmd.Flags().StringP("tags", "t", "", "Tags for --save (comma-separated)")
	cmd.Flags().Bool("no-auto-bond", false, "Disable automatic bonding")
	cmd.Flags().Bool("keep-going", false, "Log rejected ops and continue")
	cmd.Flags().Bool("validate", false, "Include octet and bonding validation of the final scene")

	RootCmd.AddCommand(cmd)
}

type editResult struct {
	Scene   editor.Scene    `json:"scene"`
	History history.Stats   `json:"history"`
	Applied int             `json:"applied"`
	Errors  []string        `json:"errors,omitempty"`
	Saved   *model.Molecule `json:"saved,omitempty"`

	Validation *bonding.ValidationResult `json:"validation,omitempty"`
}

func runEdit(cmd *cobra.Command, args []string) {
	tpl, _ := cmd.Flags().GetString("template")
	from, _ := cmd.Flags().GetString("from")
	saveKey, _ := cmd.Flags().GetString("save")
	tagsStr, _ := cmd.Flags().GetString("tags")
	noAutoBond, _ := cmd.Flags().GetBool("no-auto-bond")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	validate, _ := cmd.Flags().GetBool("validate")

	ed := newEditor(!noAutoBond)
	if err := preload(cmd.Context(), ed, tpl, from); err != nil {
		exitErr("edit", err)
	}

	// A preloaded scene may be printed or saved without a script.
	script, err := readInput(cmd, args)
	if err != nil {
		if len(args) > 0 || tpl == "" && from == "" {
			exitErr("edit", err)
		}
		script = nil
	}

	res, err := applyScript(ed, script, keepGoing)
	if err != nil {
		exitErr("edit", err)
	}

	if validate {
		v := ed.Validate()
		res.Validation = &v
	}

	if saveKey != "" {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		mol, err := s.Save(cmd.Context(), store.SaveParams{
			NS:    namespace(),
			Key:   saveKey,
			Atoms: res.Scene.Atoms,
			Bonds: res.Scene.Bonds,
			Tags:  parseTags(tagsStr),
		})
		if err != nil {
			exitErr("save", err)
		}
		if _, err := s.SaveHistory(cmd.Context(), mol.ID, ed.History()); err != nil {
			exitErr("save history", err)
		}
		res.Saved = mol
	}

	render(cmd, res, func(w io.Writer) {
		fmt.Fprintf(w, "%s  %.3f g/mol  %d atoms, %d bonds  (%d ops)\n",
			res.Scene.Formula, res.Scene.Weight, len(res.Scene.Atoms), len(res.Scene.Bonds), res.Applied)
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  rejected: %s\n", e)
		}
		if v := res.Validation; v != nil {
			fmt.Fprintf(w, "  valid: %v (%d warnings, %d suggestions)\n", v.Valid, len(v.Warnings), len(v.Suggestions))
		}
	})
}

// applyScript runs each op line of script against ed. With keepGoing,
// rejected ops are collected instead of aborting.
func applyScript(ed *editor.Editor, script []byte, keepGoing bool) (*editResult, error) {
	res := &editResult{}
	sc := bufio.NewScanner(bytes.NewReader(script))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		op, err := editor.ParseOp([]byte(text))
		if err == nil {
			err = ed.Apply(op)
		}
		if err != nil {
			if !keepGoing {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			logger.Warn("op rejected", zap.Int("line", line), zap.Error(err))
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		res.Applied++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	res.Scene = ed.Snapshot()
	res.History = ed.HistoryStats()
	return res, nil
}
