package cli

import (
	"context"
	"fmt"

	"github.com/rcliao/molecule-lab/internal/editor"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/store"
	"github.com/rcliao/molecule-lab/internal/templates"
)

// newEditor builds an editor from the loaded config.
func newEditor(autoBond bool) *editor.Editor {
	gen := ids.NewGenerator()
	opts := editor.DefaultOptions()
	opts.AutoBond = autoBond && cfg.AutoBondEnabled()
	opts.HistorySize = cfg.History.MaxSize
	opts.IDs = gen
	opts.Logger = logger
	opts.Templates = templates.Builtin(gen, cfg.Templates.BondLength)
	return editor.New(opts)
}

// preload seeds ed with a built-in template (by id or hotkey) and/or a
// stored molecule. Each is recorded as a template load.
func preload(ctx context.Context, ed *editor.Editor, templateRef, fromKey string) error {
	if templateRef != "" {
		t, ok := findTemplate(ed.Templates(), templateRef)
		if !ok {
			return fmt.Errorf("%w: %s", editor.ErrUnknownTemplate, templateRef)
		}
		ed.LoadTemplate(t)
	}
	if fromKey != "" {
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		mols, err := s.Get(ctx, store.GetParams{NS: namespace(), Key: fromKey})
		if err != nil {
			return err
		}
		m := mols[0]
		ed.LoadTemplate(templates.Template{
			ID:    m.Key,
			Name:  fmt.Sprintf("%s/%s v%d", m.NS, m.Key, m.Version),
			Atoms: m.Atoms,
			Bonds: m.Bonds,
		})
	}
	return nil
}
