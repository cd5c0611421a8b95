package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/model"
)

// ExportAll returns all non-deleted molecule versions, optionally filtered by namespace.
func (s *SQLiteStore) ExportAll(ctx context.Context, ns string) ([]model.Molecule, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if ns != "" {
		where = append(where, "ns = ?")
		args = append(args, ns)
	}

	query := `SELECT ` + moleculeCols + `
	          FROM molecules WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ns, key, version`

	molecules, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if molecules == nil {
		molecules = []model.Molecule{}
	}
	return molecules, nil
}

// Import stores exported molecule versions as-is. Versions whose id already
// exists are skipped. Returns the number of rows written.
func (s *SQLiteStore) Import(ctx context.Context, molecules []model.Molecule) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, m := range molecules {
		if err := validate(SaveParams{NS: m.NS, Key: m.Key, Atoms: m.Atoms, Bonds: m.Bonds}); err != nil {
			return 0, fmt.Errorf("import %s/%s v%d: %w", m.NS, m.Key, m.Version, err)
		}
		if m.ID == "" {
			m.ID = s.ids.New()
		}
		if m.Version <= 0 {
			m.Version = 1
		}
		// Derived columns are recomputed rather than trusted.
		m.Formula = bonding.MolecularFormula(m.Atoms)
		m.Weight = math.Round(bonding.MolecularWeight(m.Atoms)*1000) / 1000
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.now()
		}

		atomsJSON, _ := json.Marshal(model.CloneAtoms(m.Atoms))
		bondsJSON, _ := json.Marshal(model.CloneBonds(m.Bonds))
		var tagsJSON, supersedes, meta *string
		if len(m.Tags) > 0 {
			b, _ := json.Marshal(m.Tags)
			t := string(b)
			tagsJSON = &t
		}
		if m.Supersedes != "" {
			supersedes = &m.Supersedes
		}
		if m.Meta != "" {
			meta = &m.Meta
		}

		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO molecules (id, ns, key, formula, weight, atoms, bonds, tags, version, supersedes, created_at, access_count, meta)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
			m.ID, m.NS, m.Key, m.Formula, m.Weight, string(atomsJSON), string(bondsJSON), tagsJSON,
			m.Version, supersedes, m.CreatedAt.UTC().Format(timeLayout), meta)
		if err != nil {
			return 0, fmt.Errorf("import %s/%s: %w", m.NS, m.Key, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
