package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rcliao/molecule-lab/internal/fingerprint"
	"github.com/rcliao/molecule-lab/internal/model"
)

const similarCandidates = 500

// SimilarParams holds parameters for similarity ranking. The query molecule
// is either given inline (Atoms/Bonds) or referenced by Key in NS.
type SimilarParams struct {
	NS       string
	Key      string
	Atoms    []model.Atom
	Bonds    []model.Bond
	Kind     string // fingerprint kind, default composition
	Limit    int
	MinScore float64
}

// SimilarMolecule is a scored molecule.
type SimilarMolecule struct {
	NS         string  `json:"ns"`
	Key        string  `json:"key"`
	Formula    string  `json:"formula"`
	Version    int     `json:"version"`
	Similarity float64 `json:"similarity"`
	Score      float64 `json:"score"`
}

// Similar ranks stored molecules by fingerprint similarity to a query
// molecule, blended with recency.
func (s *SQLiteStore) Similar(ctx context.Context, p SimilarParams) ([]SimilarMolecule, error) {
	fp, err := fingerprint.New(p.Kind)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}

	atoms, bonds := p.Atoms, p.Bonds
	var selfID string
	if p.Key != "" {
		ref, err := s.latest(ctx, p.NS, p.Key)
		if err != nil {
			return nil, fmt.Errorf("similar: %w", err)
		}
		atoms, bonds = ref.Atoms, ref.Bonds
		selfID = ref.ID
	}
	query := fp.Fingerprint(atoms, bonds)

	candidates, err := s.List(ctx, ListParams{NS: p.NS, Limit: similarCandidates})
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := []SimilarMolecule{}
	for _, m := range candidates {
		if m.ID == selfID {
			continue
		}
		sim := fingerprint.CosineSimilarity(query, fp.Fingerprint(m.Atoms, m.Bonds))

		// Recency: exponential decay over days since save
		age := now.Sub(m.CreatedAt).Hours() / 24.0
		recency := math.Exp(-0.1 * age)

		score := sim*0.8 + recency*0.2
		if sim < p.MinScore {
			continue
		}
		results = append(results, SimilarMolecule{
			NS:         m.NS,
			Key:        m.Key,
			Formula:    m.Formula,
			Version:    m.Version,
			Similarity: math.Round(sim*1000) / 1000,
			Score:      math.Round(score*1000) / 1000,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key < results[j].Key
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
