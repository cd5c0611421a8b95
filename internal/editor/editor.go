// Package editor is the molecule-editing state machine: it owns the current
// scene, applies edits through the bonding rules and records every accepted
// edit in an undo/redo history.
package editor

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
	"github.com/rcliao/molecule-lab/internal/templates"
)

var (
	ErrUnknownAtom       = errors.New("unknown atom")
	ErrUnknownBond       = errors.New("unknown bond")
	ErrInvalidElement    = errors.New("invalid element")
	ErrInvalidBondKind   = errors.New("invalid bond kind")
	ErrBondExists        = errors.New("atoms already bonded")
	ErrBondRejected      = errors.New("bond rejected by valence rules")
	ErrSameAtom          = errors.New("cannot bond an atom to itself")
	ErrUnknownTemplate   = errors.New("unknown template")
	ErrUnknownEntry      = errors.New("unknown history entry")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrNothingToComplete = errors.New("no free valence to fill")
	ErrInvalidStructure  = errors.New("structure does not validate")
)

// Hydrogens added by AutoCompleteHydrogens sit this far from their parent.
const hydrogenOffset = 1.0

var tetrahedral = [4]geometry.Vec3{
	{X: 1, Y: 1, Z: 1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: -1},
}

// Options configures an Editor.
type Options struct {
	AutoBond    bool
	HistorySize int
	Clock       func() time.Time
	IDs         ids.Generator
	Logger      *zap.Logger
	Templates   []templates.Template
}

// DefaultOptions returns editor defaults. New fills in nil IDs, Logger and
// Templates with a ULID generator, a no-op logger and the built-in catalog.
func DefaultOptions() Options {
	return Options{
		AutoBond:    true,
		HistorySize: history.DefaultMaxSize,
	}
}

// BondRequest asks PlaceAtom to bond the new atom to an existing one.
type BondRequest struct {
	To   string         `json:"to"`
	Kind model.BondKind `json:"type"`
}

// Scene is a point-in-time copy of the editor contents.
type Scene struct {
	Atoms   []model.Atom `json:"atoms"`
	Bonds   []model.Bond `json:"bonds"`
	Formula string       `json:"formula"`
	Weight  float64      `json:"weight"`
}

// Editor is not safe for concurrent use.
type Editor struct {
	atoms     []model.Atom
	bonds     []model.Bond
	hist      *history.Manager
	ids       ids.Generator
	log       *zap.Logger
	autoBond  bool
	templates []templates.Template
}

// New returns an editor holding an empty scene. The empty scene is recorded
// as the first history entry.
func New(opts Options) *Editor {
	if opts.IDs == nil {
		opts.IDs = ids.NewGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Templates == nil {
		opts.Templates = templates.Builtin(opts.IDs, templates.DefaultBondLength)
	}
	e := &Editor{
		atoms:     []model.Atom{},
		bonds:     []model.Bond{},
		ids:       opts.IDs,
		log:       opts.Logger,
		autoBond:  opts.AutoBond,
		templates: opts.Templates,
		hist: history.NewManager(history.Options{
			MaxSize: opts.HistorySize,
			Clock:   opts.Clock,
			IDs:     opts.IDs,
		}),
	}
	e.hist.RecordState(e.atoms, e.bonds, history.ActionInit, history.Describe(history.ActionInit, history.Details{}))
	return e
}

func (e *Editor) commit(atoms []model.Atom, bonds []model.Bond, action string, d history.Details) {
	e.atoms = atoms
	e.bonds = bonds
	entry := e.hist.RecordState(atoms, bonds, action, history.Describe(action, d))
	e.log.Debug("scene edited",
		zap.String("action", action),
		zap.String("entry", entry.ID),
		zap.Int("atoms", len(atoms)),
		zap.Int("bonds", len(bonds)),
	)
}

func (e *Editor) atom(id string) (model.Atom, error) {
	a, ok := model.FindAtom(e.atoms, id)
	if !ok {
		return model.Atom{}, fmt.Errorf("atom %s: %w", id, ErrUnknownAtom)
	}
	return a, nil
}

func (e *Editor) bondIndex(id string) (int, error) {
	for i, b := range e.bonds {
		if b.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("bond %s: %w", id, ErrUnknownBond)
}

// autoBondAround adds a single bond between focusID and every unbonded atom
// within range that the valence rules allow. Bonds between other atoms are
// left alone.
func (e *Editor) autoBondAround(focusID string, atoms []model.Atom, bonds []model.Bond) []model.Bond {
	focus, ok := model.FindAtom(atoms, focusID)
	if !ok {
		return bonds
	}
	paired := make(map[string]bool, len(bonds))
	for _, b := range bonds {
		paired[b.Key()] = true
	}
	out := bonds
	for _, other := range atoms {
		if other.ID == focusID || paired[model.PairKey(focusID, other.ID)] {
			continue
		}
		if bonding.Distance(focus, other) >= bonding.BondThreshold {
			continue
		}
		if !bonding.CanFormBond(other, focus, out, model.BondSingle) {
			continue
		}
		out = append(out, model.Bond{ID: e.ids.New(), From: other.ID, To: focusID, Kind: model.BondSingle})
		paired[model.PairKey(focusID, other.ID)] = true
	}
	return out
}

// PlaceAtom drops the dragged element at pos. With explicit bond requests
// only those bonds are created, each checked against the valence rules;
// otherwise, if auto-bonding is on, the new atom is bonded to its neighbors.
func (e *Editor) PlaceAtom(s DragSession, pos geometry.Vec3, bondTo ...BondRequest) (model.Atom, error) {
	if !model.ValidElements[s.Element] {
		return model.Atom{}, fmt.Errorf("place atom %q: %w", s.Element, ErrInvalidElement)
	}
	color := s.Color
	if color == "" {
		color, _ = bonding.Color(s.Element)
	}
	placed := model.Atom{
		ID:      e.ids.New(),
		Element: s.Element,
		X:       pos.X,
		Y:       pos.Y,
		Z:       pos.Z,
		Color:   color,
	}

	atoms := append(model.CloneAtoms(e.atoms), placed)
	bonds := model.CloneBonds(e.bonds)

	switch {
	case len(bondTo) > 0:
		seen := map[string]bool{}
		for _, req := range bondTo {
			target, err := e.atom(req.To)
			if err != nil {
				return model.Atom{}, fmt.Errorf("place atom: %w", err)
			}
			if !model.ValidBondKinds[req.Kind] {
				return model.Atom{}, fmt.Errorf("place atom: bond type %q: %w", req.Kind, ErrInvalidBondKind)
			}
			if seen[target.ID] {
				return model.Atom{}, fmt.Errorf("place atom: bond to %s: %w", target.ID, ErrBondExists)
			}
			if !bonding.CanFormBond(placed, target, bonds, req.Kind) {
				return model.Atom{}, fmt.Errorf("place atom: %s bond to %s: %w", req.Kind, target.ID, ErrBondRejected)
			}
			seen[target.ID] = true
			bonds = append(bonds, model.Bond{ID: e.ids.New(), From: target.ID, To: placed.ID, Kind: req.Kind})
		}
	case e.autoBond:
		bonds = e.autoBondAround(placed.ID, atoms, bonds)
	}

	e.commit(atoms, bonds, history.ActionAddAtom, history.Details{Element: s.Element})
	return placed, nil
}

// MoveAtom relocates an atom. Bonds stretched past the threshold break;
// with auto-bonding on, the atom is bonded to its new neighbors.
func (e *Editor) MoveAtom(id string, pos geometry.Vec3) error {
	moved, err := e.atom(id)
	if err != nil {
		return fmt.Errorf("move atom: %w", err)
	}
	atoms := model.CloneAtoms(e.atoms)
	for i := range atoms {
		if atoms[i].ID == id {
			atoms[i].X, atoms[i].Y, atoms[i].Z = pos.X, pos.Y, pos.Z
		}
	}
	bonds := bonding.UpdateBondsOnMove(id, atoms, e.bonds)
	if e.autoBond {
		bonds = e.autoBondAround(id, atoms, bonds)
	}
	e.commit(atoms, bonds, history.ActionMoveAtom, history.Details{Element: moved.Element})
	return nil
}

// RemoveAtom deletes an atom and every bond touching it.
func (e *Editor) RemoveAtom(id string) error {
	removed, err := e.atom(id)
	if err != nil {
		return fmt.Errorf("remove atom: %w", err)
	}
	atoms, bonds := bonding.RemoveAtom(id, e.atoms, e.bonds)
	e.commit(atoms, bonds, history.ActionRemoveAtom, history.Details{Element: removed.Element})
	return nil
}

// AddBond bonds two unbonded atoms with the given kind.
func (e *Editor) AddBond(from, to string, kind model.BondKind) (model.Bond, error) {
	if from == to {
		return model.Bond{}, fmt.Errorf("add bond: %w", ErrSameAtom)
	}
	a, err := e.atom(from)
	if err != nil {
		return model.Bond{}, fmt.Errorf("add bond: %w", err)
	}
	b, err := e.atom(to)
	if err != nil {
		return model.Bond{}, fmt.Errorf("add bond: %w", err)
	}
	if !model.ValidBondKinds[kind] {
		return model.Bond{}, fmt.Errorf("add bond: type %q: %w", kind, ErrInvalidBondKind)
	}
	key := model.PairKey(from, to)
	for _, existing := range e.bonds {
		if existing.Key() == key {
			return model.Bond{}, fmt.Errorf("add bond %s-%s: %w", from, to, ErrBondExists)
		}
	}
	if !bonding.CanFormBond(a, b, e.bonds, kind) {
		return model.Bond{}, fmt.Errorf("add bond %s-%s %s: %w", from, to, kind, ErrBondRejected)
	}

	bond := model.Bond{ID: e.ids.New(), From: from, To: to, Kind: kind}
	e.commit(model.CloneAtoms(e.atoms), append(model.CloneBonds(e.bonds), bond),
		history.ActionAddBond, history.Details{BondType: string(kind)})
	return bond, nil
}

// RemoveBond deletes a bond.
func (e *Editor) RemoveBond(id string) error {
	i, err := e.bondIndex(id)
	if err != nil {
		return fmt.Errorf("remove bond: %w", err)
	}
	bonds := make([]model.Bond, 0, len(e.bonds)-1)
	bonds = append(bonds, e.bonds[:i]...)
	bonds = append(bonds, e.bonds[i+1:]...)
	e.commit(model.CloneAtoms(e.atoms), bonds, history.ActionRemoveBond, history.Details{})
	return nil
}

// ChangeBondType re-types a bond. The bond's current kind does not count
// against the endpoints' valence when checking the new one.
func (e *Editor) ChangeBondType(id string, kind model.BondKind) error {
	i, err := e.bondIndex(id)
	if err != nil {
		return fmt.Errorf("change bond type: %w", err)
	}
	if !model.ValidBondKinds[kind] {
		return fmt.Errorf("change bond type: %q: %w", kind, ErrInvalidBondKind)
	}
	target := e.bonds[i]
	a, err := e.atom(target.From)
	if err != nil {
		return fmt.Errorf("change bond type: %w", err)
	}
	b, err := e.atom(target.To)
	if err != nil {
		return fmt.Errorf("change bond type: %w", err)
	}

	others := make([]model.Bond, 0, len(e.bonds)-1)
	others = append(others, e.bonds[:i]...)
	others = append(others, e.bonds[i+1:]...)
	if !bonding.CanFormBond(a, b, others, kind) {
		return fmt.Errorf("change bond %s to %s: %w", id, kind, ErrBondRejected)
	}

	bonds := model.CloneBonds(e.bonds)
	bonds[i].Kind = kind
	e.commit(model.CloneAtoms(e.atoms), bonds, history.ActionChangeBondType, history.Details{BondType: string(kind)})
	return nil
}

// LoadTemplate replaces the scene with a copy of t under fresh ids.
func (e *Editor) LoadTemplate(t templates.Template) {
	remap := make(map[string]string, len(t.Atoms))
	atoms := make([]model.Atom, 0, len(t.Atoms))
	for _, a := range t.Atoms {
		id := e.ids.New()
		remap[a.ID] = id
		a.ID = id
		atoms = append(atoms, a)
	}
	bonds := make([]model.Bond, 0, len(t.Bonds))
	for _, b := range t.Bonds {
		from, okFrom := remap[b.From]
		to, okTo := remap[b.To]
		if !okFrom || !okTo {
			continue
		}
		bonds = append(bonds, model.Bond{ID: e.ids.New(), From: from, To: to, Kind: b.Kind})
	}
	e.commit(atoms, bonds, history.ActionLoadTemplate, history.Details{TemplateName: t.Name})
}

// LoadTemplateByID loads a template from the editor's catalog.
func (e *Editor) LoadTemplateByID(id string) error {
	t, ok := templates.ByID(e.templates, id)
	if !ok {
		return fmt.Errorf("load template %s: %w", id, ErrUnknownTemplate)
	}
	e.LoadTemplate(t)
	return nil
}

// Templates returns the editor's template catalog.
func (e *Editor) Templates() []templates.Template {
	return e.templates
}

// Clear empties the scene. The clear itself is undoable.
func (e *Editor) Clear() {
	e.commit([]model.Atom{}, []model.Bond{}, history.ActionClearScene, history.Details{})
}

// AutoCompleteHydrogens fills each heavy atom's free valence with hydrogens
// placed on tetrahedral offsets around it.
func (e *Editor) AutoCompleteHydrogens() (int, error) {
	atoms := model.CloneAtoms(e.atoms)
	bonds := model.CloneBonds(e.bonds)
	hColor, _ := bonding.Color("H")

	added := 0
	for _, parent := range e.atoms {
		if parent.Element == "H" {
			continue
		}
		used := bonding.UsedValence(parent.ID, bonds)
		free := bonding.Valence(parent.Element) - used
		for k := 0; k < free; k++ {
			dir := tetrahedral[(used+k)%len(tetrahedral)].Normalize().Scale(hydrogenOffset)
			p := geometry.Vec3{X: parent.X, Y: parent.Y, Z: parent.Z}.Add(dir).Round(3)
			h := model.Atom{ID: e.ids.New(), Element: "H", X: p.X, Y: p.Y, Z: p.Z, Color: hColor}
			atoms = append(atoms, h)
			bonds = append(bonds, model.Bond{ID: e.ids.New(), From: parent.ID, To: h.ID, Kind: model.BondSingle})
			added++
		}
	}
	if added == 0 {
		return 0, ErrNothingToComplete
	}
	e.commit(atoms, bonds, history.ActionAutoComplete, history.Details{})
	return added, nil
}

// Undo restores the previous scene.
func (e *Editor) Undo() error {
	entry, ok := e.hist.Undo()
	if !ok {
		return ErrNothingToUndo
	}
	e.restore(entry)
	return nil
}

// Redo restores the next scene.
func (e *Editor) Redo() error {
	entry, ok := e.hist.Redo()
	if !ok {
		return ErrNothingToRedo
	}
	e.restore(entry)
	return nil
}

// JumpTo restores the scene recorded by the given history entry.
func (e *Editor) JumpTo(entryID string) error {
	entry, ok := e.hist.JumpTo(entryID)
	if !ok {
		return fmt.Errorf("jump to %s: %w", entryID, ErrUnknownEntry)
	}
	e.restore(entry)
	return nil
}

func (e *Editor) restore(entry history.Entry) {
	e.atoms = entry.Atoms
	e.bonds = entry.Bonds
	e.log.Debug("scene restored", zap.String("entry", entry.ID), zap.String("action", entry.Action))
}

// NewScene copies atoms and bonds into a Scene and derives its formula and
// weight.
func NewScene(atoms []model.Atom, bonds []model.Bond) Scene {
	return Scene{
		Atoms:   model.CloneAtoms(atoms),
		Bonds:   model.CloneBonds(bonds),
		Formula: bonding.MolecularFormula(atoms),
		Weight:  roundWeight(atoms),
	}
}

// Snapshot returns a copy of the current scene with its formula and weight.
func (e *Editor) Snapshot() Scene { return NewScene(e.atoms, e.bonds) }

// Formula returns the molecular formula of the scene.
func (e *Editor) Formula() string { return bonding.MolecularFormula(e.atoms) }

// Weight returns the molecular weight rounded to 3 decimals.
func (e *Editor) Weight() float64 { return roundWeight(e.atoms) }

func roundWeight(atoms []model.Atom) float64 {
	return math.Round(bonding.MolecularWeight(atoms)*1000) / 1000
}

// Validate checks the current scene against the octet and bonding rules.
func (e *Editor) Validate() bonding.ValidationResult {
	return bonding.Validate(e.atoms, e.bonds)
}

// AvailableBondTypes lists the kinds the pair could be bonded with now.
func (e *Editor) AvailableBondTypes(from, to string) ([]model.BondKind, error) {
	a, err := e.atom(from)
	if err != nil {
		return nil, err
	}
	b, err := e.atom(to)
	if err != nil {
		return nil, err
	}
	return bonding.AvailableBondTypes(a, b, e.bonds), nil
}

// History returns copies of every recorded entry, oldest first.
func (e *Editor) History() []history.Entry { return e.hist.Entries() }

// HistoryStats summarizes the history.
func (e *Editor) HistoryStats() history.Stats { return e.hist.Stats() }

// Subscribe registers a listener for history cursor movements.
func (e *Editor) Subscribe(fn history.Listener) func() { return e.hist.Subscribe(fn) }

// CanUndo reports whether Undo would restore an earlier scene.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would restore a later scene.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }
