package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/molecule-lab/internal/model"
)

// SearchParams holds parameters for searching molecules.
type SearchParams struct {
	NS    string
	Query string
	Limit int
}

// Search finds molecules whose key, formula, or tags contain the query.
// Only the latest version of each key is considered.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Molecule, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"m.deleted_at IS NULL"}
	var args []interface{}

	if p.NS != "" {
		where = append(where, "m.ns = ?")
		args = append(args, p.NS)
	}

	// LIKE is case-insensitive for ASCII in SQLite.
	q := "%" + p.Query + "%"
	where = append(where, "(m.key LIKE ? OR m.formula LIKE ? OR m.tags LIKE ?)")
	args = append(args, q, q, q)

	sql := fmt.Sprintf(`
		SELECT %s
		FROM molecules m %s
		WHERE %s
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?`, moleculeColsM, latestJoin, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.query(ctx, sql, args...)
}
