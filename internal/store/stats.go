package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string           `json:"db_path"`
	DBSizeBytes     int64            `json:"db_size_bytes"`
	TotalMolecules  int              `json:"total_molecules"`
	ActiveMolecules int              `json:"active_molecules"`
	HistoryEntries  int              `json:"history_entries"`
	Links           int              `json:"links"`
	Namespaces      []NamespaceStats `json:"namespaces"`
}

// NamespaceStats holds per-namespace counts.
type NamespaceStats struct {
	NS    string `json:"ns"`
	Count int    `json:"count"`
	Keys  int    `json:"keys"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM molecules`, &st.TotalMolecules},
		{`SELECT COUNT(*) FROM molecules WHERE deleted_at IS NULL`, &st.ActiveMolecules},
		{`SELECT COUNT(*) FROM history_entries`, &st.HistoryEntries},
		{`SELECT COUNT(*) FROM molecule_links`, &st.Links},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	ns, err := s.ListNamespaces(ctx)
	if err != nil {
		return st, err
	}
	st.Namespaces = ns
	return st, nil
}

// ListNamespaces returns live version and key counts per namespace.
func (s *SQLiteStore) ListNamespaces(ctx context.Context) ([]NamespaceStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ns, COUNT(*) as cnt, COUNT(DISTINCT key) as keys
		FROM molecules WHERE deleted_at IS NULL
		GROUP BY ns ORDER BY cnt DESC, ns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []NamespaceStats{}
	for rows.Next() {
		var ns NamespaceStats
		if err := rows.Scan(&ns.NS, &ns.Count, &ns.Keys); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}
