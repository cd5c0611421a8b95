package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/model"
)

// SaveHistory replaces the stored edit history of a molecule version with
// entries, in order.
func (s *SQLiteStore) SaveHistory(ctx context.Context, moleculeID string, entries []history.Entry) ([]model.HistoryRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM molecules WHERE id = ?`, moleculeID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("save history %s: %w", moleculeID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("save history %s: %w", moleculeID, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries WHERE molecule_id = ?`, moleculeID); err != nil {
		return nil, fmt.Errorf("clear history: %w", err)
	}

	records := make([]model.HistoryRecord, 0, len(entries))
	for i, e := range entries {
		rec := model.HistoryRecord{
			ID:          s.ids.New(),
			MoleculeID:  moleculeID,
			Seq:         i,
			Action:      e.Action,
			Description: e.Description,
			Timestamp:   e.Timestamp.UTC(),
			Atoms:       model.CloneAtoms(e.Atoms),
			Bonds:       model.CloneBonds(e.Bonds),
		}
		atomsJSON, err := json.Marshal(rec.Atoms)
		if err != nil {
			return nil, fmt.Errorf("encode atoms: %w", err)
		}
		bondsJSON, err := json.Marshal(rec.Bonds)
		if err != nil {
			return nil, fmt.Errorf("encode bonds: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO history_entries (id, molecule_id, seq, action, description, timestamp, atoms, bonds)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, moleculeID, rec.Seq, rec.Action, rec.Description,
			rec.Timestamp.Format(timeLayout), string(atomsJSON), string(bondsJSON))
		if err != nil {
			return nil, fmt.Errorf("insert history entry: %w", err)
		}
		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return records, nil
}

// History loads the stored edit history of a molecule version ordered by seq.
func (s *SQLiteStore) History(ctx context.Context, moleculeID string) ([]model.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, molecule_id, seq, action, description, timestamp, atoms, bonds
		 FROM history_entries WHERE molecule_id = ? ORDER BY seq`, moleculeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.HistoryRecord{}
	for rows.Next() {
		var r model.HistoryRecord
		var ts, atomsJSON, bondsJSON string
		if err := rows.Scan(&r.ID, &r.MoleculeID, &r.Seq, &r.Action, &r.Description, &ts, &atomsJSON, &bondsJSON); err != nil {
			return nil, err
		}
		r.Timestamp = parseTime(ts)
		if err := json.Unmarshal([]byte(atomsJSON), &r.Atoms); err != nil {
			return nil, fmt.Errorf("decode history atoms: %w", err)
		}
		if err := json.Unmarshal([]byte(bondsJSON), &r.Bonds); err != nil {
			return nil, fmt.Errorf("decode history bonds: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
