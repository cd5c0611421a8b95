package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrInvalidRelation = errors.New("invalid relation")
	ErrNotIsomer       = errors.New("molecules are not isomers")
)

// LinkParams holds parameters for creating/removing a link.
type LinkParams struct {
	FromNS  string
	FromKey string
	ToNS    string
	ToKey   string
	Rel     string // derived_from | isomer_of | related_to | variant_of
	Remove  bool
}

// Link represents a relation between two stored molecule versions.
type Link struct {
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Rel       string `json:"rel"`
	CreatedAt string `json:"created_at,omitempty"`
}

const RelIsomerOf = "isomer_of"

var validRels = map[string]bool{
	"derived_from": true,
	RelIsomerOf:    true,
	"related_to":   true,
	"variant_of":   true,
}

// Link creates or removes a relation between the latest versions of two
// molecules. isomer_of requires equal formulas.
func (s *SQLiteStore) Link(ctx context.Context, p LinkParams) (*Link, error) {
	if !validRels[p.Rel] {
		return nil, fmt.Errorf("%w %q (valid: derived_from, isomer_of, related_to, variant_of)", ErrInvalidRelation, p.Rel)
	}

	fromID, err := s.resolveMoleculeID(ctx, p.FromNS, p.FromKey)
	if err != nil {
		return nil, fmt.Errorf("resolve from: %w", err)
	}
	toID, err := s.resolveMoleculeID(ctx, p.ToNS, p.ToKey)
	if err != nil {
		return nil, fmt.Errorf("resolve to: %w", err)
	}

	if p.Remove {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM molecule_links WHERE from_id = ? AND to_id = ? AND rel = ?`,
			fromID, toID, p.Rel)
		if err != nil {
			return nil, err
		}
		return &Link{FromID: fromID, ToID: toID, Rel: p.Rel}, nil
	}

	if p.Rel == RelIsomerOf {
		a, err := s.formulaOf(ctx, fromID)
		if err != nil {
			return nil, fmt.Errorf("isomer check: %w", err)
		}
		b, err := s.formulaOf(ctx, toID)
		if err != nil {
			return nil, fmt.Errorf("isomer check: %w", err)
		}
		if a != b {
			return nil, fmt.Errorf("link %s and %s: %w", a, b, ErrNotIsomer)
		}
	}

	now := s.now().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO molecule_links (from_id, to_id, rel, created_at) VALUES (?, ?, ?, ?)`,
		fromID, toID, p.Rel, now)
	if err != nil {
		return nil, err
	}

	return &Link{FromID: fromID, ToID: toID, Rel: p.Rel, CreatedAt: now}, nil
}

func (s *SQLiteStore) formulaOf(ctx context.Context, id string) (string, error) {
	var formula string
	err := s.db.QueryRowContext(ctx, `SELECT formula FROM molecules WHERE id = ?`, id).Scan(&formula)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("molecule %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("formula of %s: %w", id, err)
	}
	return formula, nil
}

// GetLinks returns all links touching a molecule version.
func (s *SQLiteStore) GetLinks(ctx context.Context, moleculeID string) ([]Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id, rel, created_at FROM molecule_links
		 WHERE from_id = ? OR to_id = ? ORDER BY created_at`, moleculeID, moleculeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.FromID, &l.ToID, &l.Rel, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
