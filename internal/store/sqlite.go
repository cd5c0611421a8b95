package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
)

// Fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

const moleculeCols = `id, ns, key, formula, weight, atoms, bonds, tags, version, supersedes,
	created_at, deleted_at, access_count, last_accessed_at, meta`

const moleculeColsM = `m.id, m.ns, m.key, m.formula, m.weight, m.atoms, m.bonds, m.tags, m.version, m.supersedes,
	m.created_at, m.deleted_at, m.access_count, m.last_accessed_at, m.meta`

// latestJoin restricts m to the newest live version of each ns+key.
const latestJoin = `
	INNER JOIN (
		SELECT ns, key, MAX(version) AS max_ver
		FROM molecules WHERE deleted_at IS NULL
		GROUP BY ns, key
	) latest ON m.ns = latest.ns AND m.key = latest.key AND m.version = latest.max_ver`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	ids ids.Generator
	now func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:  db,
		ids: ids.NewGenerator(),
		now: func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS molecules (
		id          TEXT PRIMARY KEY,
		ns          TEXT NOT NULL,
		key         TEXT NOT NULL,
		formula     TEXT NOT NULL,
		weight      REAL NOT NULL DEFAULT 0,
		atoms       TEXT NOT NULL,
		bonds       TEXT NOT NULL,
		tags        TEXT,
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT,
		access_count INTEGER NOT NULL DEFAULT 0,
		last_accessed_at TEXT,
		meta        TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_molecules_ns_key ON molecules(ns, key);
	CREATE INDEX IF NOT EXISTS idx_molecules_formula ON molecules(ns, formula);
	CREATE INDEX IF NOT EXISTS idx_molecules_created ON molecules(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_molecules_deleted ON molecules(deleted_at);

	CREATE TABLE IF NOT EXISTS history_entries (
		id          TEXT PRIMARY KEY,
		molecule_id TEXT NOT NULL REFERENCES molecules(id),
		seq         INTEGER NOT NULL,
		action      TEXT NOT NULL,
		description TEXT NOT NULL,
		timestamp   TEXT NOT NULL,
		atoms       TEXT NOT NULL,
		bonds       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_molecule ON history_entries(molecule_id, seq);

	CREATE TABLE IF NOT EXISTS molecule_links (
		from_id    TEXT NOT NULL REFERENCES molecules(id),
		to_id      TEXT NOT NULL REFERENCES molecules(id),
		rel        TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id, rel)
	);
	CREATE INDEX IF NOT EXISTS idx_links_to ON molecule_links(to_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func validate(p SaveParams) error {
	if p.NS == "" || p.Key == "" {
		return fmt.Errorf("%w: namespace and key are required", ErrInvalidMolecule)
	}
	present := make(map[string]bool, len(p.Atoms))
	for _, a := range p.Atoms {
		if a.ID == "" || present[a.ID] {
			return fmt.Errorf("%w: missing or duplicate atom id %q", ErrInvalidMolecule, a.ID)
		}
		if !model.ValidElements[a.Element] {
			return fmt.Errorf("%w: unknown element %q", ErrInvalidMolecule, a.Element)
		}
		present[a.ID] = true
	}
	pairs := make(map[string]bool, len(p.Bonds))
	for _, b := range p.Bonds {
		if !present[b.From] || !present[b.To] {
			return fmt.Errorf("%w: bond %s references a missing atom", ErrInvalidMolecule, b.ID)
		}
		if !model.ValidBondKinds[b.Kind] {
			return fmt.Errorf("%w: bond %s has type %q", ErrInvalidMolecule, b.ID, b.Kind)
		}
		if pairs[b.Key()] {
			return fmt.Errorf("%w: duplicate bond between %s and %s", ErrInvalidMolecule, b.From, b.To)
		}
		pairs[b.Key()] = true
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, p SaveParams) (*model.Molecule, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	now := s.now()
	id := s.ids.New()
	atoms := model.CloneAtoms(p.Atoms)
	bonds := model.CloneBonds(p.Bonds)
	formula := bonding.MolecularFormula(atoms)
	weight := math.Round(bonding.MolecularWeight(atoms)*1000) / 1000

	atomsJSON, err := json.Marshal(atoms)
	if err != nil {
		return nil, fmt.Errorf("encode atoms: %w", err)
	}
	bondsJSON, err := json.Marshal(bonds)
	if err != nil {
		return nil, fmt.Errorf("encode bonds: %w", err)
	}

	var tagsJSON *string
	if len(p.Tags) > 0 {
		b, _ := json.Marshal(p.Tags)
		t := string(b)
		tagsJSON = &t
	}

	var metaPtr *string
	if p.Meta != "" {
		metaPtr = &p.Meta
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Check for existing latest version
	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM molecules
		 WHERE ns = ? AND key = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, p.NS, p.Key).Scan(&prevID, &prevVersion)

	version := 1
	var supersedes *string
	switch {
	case err == nil:
		version = prevVersion + 1
		supersedes = &prevID
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find previous version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO molecules (id, ns, key, formula, weight, atoms, bonds, tags, version, supersedes, created_at, access_count, meta)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		id, p.NS, p.Key, formula, weight, string(atomsJSON), string(bondsJSON), tagsJSON,
		version, supersedes, now.Format(timeLayout), metaPtr)
	if err != nil {
		return nil, fmt.Errorf("insert molecule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	mol := &model.Molecule{
		ID:        id,
		NS:        p.NS,
		Key:       p.Key,
		Formula:   formula,
		Weight:    weight,
		Atoms:     atoms,
		Bonds:     bonds,
		Tags:      p.Tags,
		Version:   version,
		CreatedAt: now,
		Meta:      p.Meta,
	}
	if supersedes != nil {
		mol.Supersedes = *supersedes
	}
	return mol, nil
}

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) ([]model.Molecule, error) {
	var query string
	var args []interface{}

	switch {
	case p.History:
		query = `SELECT ` + moleculeCols + `
				 FROM molecules WHERE ns = ? AND key = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{p.NS, p.Key}
	case p.Version > 0:
		query = `SELECT ` + moleculeCols + `
				 FROM molecules WHERE ns = ? AND key = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{p.NS, p.Key, p.Version}
	default:
		query = `SELECT ` + moleculeCols + `
				 FROM molecules WHERE ns = ? AND key = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{p.NS, p.Key}
	}

	molecules, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(molecules) == 0 {
		return nil, fmt.Errorf("get %s/%s: %w", p.NS, p.Key, ErrNotFound)
	}

	// Update access tracking for the returned version
	if !p.History {
		s.db.ExecContext(ctx,
			`UPDATE molecules SET access_count = access_count + 1, last_accessed_at = ? WHERE id = ?`,
			s.now().Format(timeLayout), molecules[0].ID)
	}

	return molecules, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Molecule, error) {
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
	if p.Formula != "" {
		where = append(where, "m.formula = ?")
		args = append(args, p.Formula)
	}
	for _, tag := range p.Tags {
		where = append(where, "m.tags LIKE ?")
		args = append(args, "%\""+tag+"\"%")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM molecules m %s
		WHERE %s
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?`, moleculeColsM, latestJoin, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	if p.Hard {
		return s.hardDelete(ctx, p)
	}

	now := s.now().Format(timeLayout)
	if p.AllVersions {
		res, err := s.db.ExecContext(ctx,
			`UPDATE molecules SET deleted_at = ? WHERE ns = ? AND key = ? AND deleted_at IS NULL`,
			now, p.NS, p.Key)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("rm %s/%s: %w", p.NS, p.Key, ErrNotFound)
		}
		return nil
	}

	// Soft-delete latest version only
	id, err := s.resolveMoleculeID(ctx, p.NS, p.Key)
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE molecules SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) hardDelete(ctx context.Context, p RmParams) error {
	var ids []string
	if p.AllVersions {
		rows, err := s.db.QueryContext(ctx, `SELECT id FROM molecules WHERE ns = ? AND key = ?`, p.NS, p.Key)
		if err != nil {
			return err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("rm %s/%s: %w", p.NS, p.Key, ErrNotFound)
		}
	} else {
		id, err := s.resolveMoleculeID(ctx, p.NS, p.Key)
		if err != nil {
			return fmt.Errorf("rm: %w", err)
		}
		ids = []string{id}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries WHERE molecule_id = ?`, id); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM molecule_links WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		// Later versions keep pointing at a row that no longer exists.
		if _, err := tx.ExecContext(ctx, `UPDATE molecules SET supersedes = NULL WHERE supersedes = ?`, id); err != nil {
			return fmt.Errorf("unlink versions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM molecules WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete molecule: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// resolveMoleculeID finds the latest live molecule ID for a ns/key pair.
func (s *SQLiteStore) resolveMoleculeID(ctx context.Context, ns, key string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM molecules WHERE ns = ? AND key = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, ns, key).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%s/%s: %w", ns, key, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// latest reads the newest live version of ns/key without touching its
// access tracking.
func (s *SQLiteStore) latest(ctx context.Context, ns, key string) (model.Molecule, error) {
	molecules, err := s.query(ctx, `SELECT `+moleculeCols+`
		FROM molecules WHERE ns = ? AND key = ? AND deleted_at IS NULL
		ORDER BY version DESC LIMIT 1`, ns, key)
	if err != nil {
		return model.Molecule{}, err
	}
	if len(molecules) == 0 {
		return model.Molecule{}, fmt.Errorf("%s/%s: %w", ns, key, ErrNotFound)
	}
	return molecules[0], nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]model.Molecule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var molecules []model.Molecule
	for rows.Next() {
		m, err := scanMolecule(rows)
		if err != nil {
			return nil, err
		}
		molecules = append(molecules, m)
	}
	return molecules, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMolecule(row scanner) (model.Molecule, error) {
	var m model.Molecule
	var atomsJSON, bondsJSON, createdAt string
	var tagsJSON, supersedes, deletedAt, lastAccessed, meta sql.NullString

	err := row.Scan(
		&m.ID, &m.NS, &m.Key, &m.Formula, &m.Weight, &atomsJSON, &bondsJSON, &tagsJSON,
		&m.Version, &supersedes, &createdAt, &deletedAt,
		&m.AccessCount, &lastAccessed, &meta,
	)
	if err != nil {
		return m, err
	}

	if err := json.Unmarshal([]byte(atomsJSON), &m.Atoms); err != nil {
		return m, fmt.Errorf("decode atoms of %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(bondsJSON), &m.Bonds); err != nil {
		return m, fmt.Errorf("decode bonds of %s: %w", m.ID, err)
	}

	m.CreatedAt = parseTime(createdAt)
	if supersedes.Valid {
		m.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		m.DeletedAt = &t
	}
	if lastAccessed.Valid {
		t := parseTime(lastAccessed.String)
		m.LastAccessedAt = &t
	}
	if meta.Valid {
		m.Meta = meta.String
	}
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &m.Tags)
	}

	return m, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
