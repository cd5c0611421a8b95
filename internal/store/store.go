// Package store provides the molecule storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/molecule-lab/internal/model"
)

var (
	ErrNotFound        = errors.New("molecule not found")
	ErrInvalidMolecule = errors.New("invalid molecule")
)

// SaveParams holds parameters for storing a molecule.
type SaveParams struct {
	NS    string
	Key   string
	Atoms []model.Atom
	Bonds []model.Bond
	Tags  []string
	Meta  string
}

// GetParams holds parameters for retrieving a molecule.
type GetParams struct {
	NS      string
	Key     string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing molecules.
type ListParams struct {
	NS      string
	Formula string
	Tags    []string
	Limit   int
}

// RmParams holds parameters for deleting a molecule.
type RmParams struct {
	NS          string
	Key         string
	AllVersions bool
	Hard        bool
}

// Store defines the molecule storage interface.
type Store interface {
	// Save stores a new version of a molecule. Returns the created version.
	Save(ctx context.Context, p SaveParams) (*model.Molecule, error)

	// Get retrieves a molecule by namespace and key.
	// Returns a slice (single element normally, multiple with History=true).
	Get(ctx context.Context, p GetParams) ([]model.Molecule, error)

	// List lists molecules matching the given filters.
	List(ctx context.Context, p ListParams) ([]model.Molecule, error)

	// Rm soft-deletes (or hard-deletes) a molecule.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
