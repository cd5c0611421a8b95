package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/templates"
)

func init() {
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Browse built-in templates",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Run:   runTemplateList,
	}
	listCmd.Flags().String("category", "", "Filter by category")
	listCmd.Flags().String("difficulty", "", "Filter by difficulty")
	listCmd.Flags().StringP("tags", "t", "", "Filter by tags (comma-separated, any match)")
	listCmd.Flags().StringP("search", "s", "", "Case-insensitive text search")

	showCmd := &cobra.Command{
		Use:   "show [id|hotkey]",
		Short: "Show one template",
		Args:  cobra.ExactArgs(1),
		Run:   runTemplateShow,
	}

	templateCmd.AddCommand(listCmd, showCmd)
	RootCmd.AddCommand(templateCmd)
}

func catalog() []templates.Template {
	return templates.Builtin(ids.NewSequence("t"), cfg.Templates.BondLength)
}

// findTemplate looks up a template by id, then by hotkey.
func findTemplate(list []templates.Template, ref string) (templates.Template, bool) {
	if t, ok := templates.ByID(list, ref); ok {
		return t, true
	}
	return templates.ByHotkey(list, ref)
}

func runTemplateList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	tagsStr, _ := cmd.Flags().GetString("tags")
	query, _ := cmd.Flags().GetString("search")

	list := templates.Filter(catalog(), templates.FilterParams{
		Category:   category,
		Difficulty: difficulty,
		Tags:       parseTags(tagsStr),
	})
	if query != "" {
		list = templates.Search(list, query)
	}

	type summary struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Category   string  `json:"category"`
		Formula    string  `json:"formula"`
		Weight     float64 `json:"molecular_weight"`
		Hotkey     string  `json:"hotkey,omitempty"`
		Difficulty string  `json:"difficulty"`
	}
	out := make([]summary, 0, len(list))
	for _, t := range list {
		out = append(out, summary{t.ID, t.Name, t.Category, t.Formula, t.Weight, t.Hotkey, t.Difficulty})
	}

	render(cmd, out, func(w io.Writer) {
		for _, s := range out {
			fmt.Fprintf(w, "%-28s %-10s %-18s %s\n", s.ID, s.Formula, s.Category, s.Name)
		}
	})
}

func runTemplateShow(cmd *cobra.Command, args []string) {
	t, ok := findTemplate(catalog(), args[0])
	if !ok {
		exitErr("template show", fmt.Errorf("template %q not found", args[0]))
	}
	render(cmd, t, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s)  %s  %.3f g/mol\n%s\n", t.Name, t.ID, t.Formula, t.Weight, t.Description)
		for _, n := range t.Notes {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	})
}
