package editor

import (
	"bufio"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/ids"
	"github.com/rcliao/molecule-lab/internal/model"
	"github.com/rcliao/molecule-lab/internal/templates"
)

func newTestEditor(t *testing.T, autoBond bool) *Editor {
	t.Helper()
	return New(Options{
		AutoBond:  autoBond,
		IDs:       ids.NewSequence("e"),
		Templates: templates.Builtin(ids.NewSequence("t"), 0),
	})
}

func drag(t *testing.T, element string) DragSession {
	t.Helper()
	s, err := BeginDrag(element)
	require.NoError(t, err)
	return s
}

func place(t *testing.T, e *Editor, element string, x, y, z float64, bondTo ...BondRequest) model.Atom {
	t.Helper()
	a, err := e.PlaceAtom(drag(t, element), geometry.Vec3{X: x, Y: y, Z: z}, bondTo...)
	require.NoError(t, err)
	return a
}

func assertValenceRespected(t *testing.T, e *Editor) {
	t.Helper()
	scene := e.Snapshot()
	for _, a := range scene.Atoms {
		used := bonding.UsedValence(a.ID, scene.Bonds)
		assert.LessOrEqual(t, used, bonding.Valence(a.Element), "atom %s (%s) over valence", a.ID, a.Element)
	}
}

func TestNewRecordsInitialScene(t *testing.T) {
	e := newTestEditor(t, true)
	h := e.History()
	require.Len(t, h, 1)
	assert.Equal(t, history.ActionInit, h[0].Action)
	assert.Empty(t, e.Snapshot().Atoms)
	assert.False(t, e.CanUndo())
	assert.ErrorIs(t, e.Undo(), ErrNothingToUndo)
}

func TestPlaceAtomAutoBondsWithinValence(t *testing.T) {
	e := newTestEditor(t, true)
	c := place(t, e, "C", 0, 0, 0)
	place(t, e, "H", 1, 0, 0)
	place(t, e, "H", -1, 0, 0)
	place(t, e, "H", 0, 1, 0)
	place(t, e, "H", 0, -1, 0)
	extra := place(t, e, "H", 0, 0, 1)

	scene := e.Snapshot()
	assert.Len(t, scene.Bonds, 4)
	assert.Equal(t, 4, bonding.UsedValence(c.ID, scene.Bonds))
	assert.Zero(t, bonding.UsedValence(extra.ID, scene.Bonds), "fifth hydrogen should stay unbonded")
	assert.Equal(t, "CH5", scene.Formula)
	assertValenceRespected(t, e)

	// INIT plus one entry per placement.
	assert.Len(t, e.History(), 7)
}

func TestPlaceAtomWithoutAutoBond(t *testing.T) {
	e := newTestEditor(t, false)
	place(t, e, "C", 0, 0, 0)
	place(t, e, "H", 1, 0, 0)
	assert.Empty(t, e.Snapshot().Bonds)
}

func TestPlaceAtomExplicitBonds(t *testing.T) {
	e := newTestEditor(t, true)
	o := place(t, e, "O", 0, 0, 0)
	far := place(t, e, "C", 8, 0, 0)

	h := place(t, e, "H", 5, 0, 0, BondRequest{To: o.ID, Kind: model.BondSingle})
	scene := e.Snapshot()
	require.Len(t, scene.Bonds, 1, "explicit requests replace auto-bonding")
	assert.True(t, scene.Bonds[0].Touches(h.ID))
	assert.True(t, scene.Bonds[0].Touches(o.ID))
	assert.False(t, scene.Bonds[0].Touches(far.ID))

	before := len(e.History())
	_, err := e.PlaceAtom(drag(t, "H"), geometry.Vec3{}, BondRequest{To: o.ID, Kind: model.BondTriple})
	assert.ErrorIs(t, err, ErrBondRejected)

	_, err = e.PlaceAtom(drag(t, "H"), geometry.Vec3{}, BondRequest{To: "ghost", Kind: model.BondSingle})
	assert.ErrorIs(t, err, ErrUnknownAtom)

	_, err = e.PlaceAtom(drag(t, "H"), geometry.Vec3{}, BondRequest{To: o.ID, Kind: "quadruple"})
	assert.ErrorIs(t, err, ErrInvalidBondKind)

	_, err = e.PlaceAtom(drag(t, "C"), geometry.Vec3{},
		BondRequest{To: o.ID, Kind: model.BondHydrogen},
		BondRequest{To: o.ID, Kind: model.BondHydrogen},
	)
	assert.ErrorIs(t, err, ErrBondExists)

	assert.Len(t, e.History(), before, "rejected placements must not be recorded")
	assert.Len(t, e.Snapshot().Atoms, 3)
}

func TestPlaceAtomInvalidElement(t *testing.T) {
	_, err := BeginDrag("Fe")
	assert.ErrorIs(t, err, ErrInvalidElement)

	e := newTestEditor(t, true)
	_, err = e.PlaceAtom(DragSession{Element: "Xe"}, geometry.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidElement)
	assert.Len(t, e.History(), 1)
}

func TestPlaceAtomFallsBackToElementColor(t *testing.T) {
	e := newTestEditor(t, true)
	a, err := e.PlaceAtom(DragSession{Element: "N"}, geometry.Vec3{})
	require.NoError(t, err)
	assert.Equal(t, "#3050F8", a.Color)
}

func TestAddBond(t *testing.T) {
	e := newTestEditor(t, true)
	c := place(t, e, "C", 0, 0, 0)
	o := place(t, e, "O", 5, 0, 0)

	_, err := e.AddBond(c.ID, o.ID, model.BondAromatic)
	assert.ErrorIs(t, err, ErrBondRejected)
	_, err = e.AddBond(c.ID, o.ID, "weird")
	assert.ErrorIs(t, err, ErrInvalidBondKind)
	_, err = e.AddBond(c.ID, c.ID, model.BondSingle)
	assert.ErrorIs(t, err, ErrSameAtom)
	_, err = e.AddBond(c.ID, "ghost", model.BondSingle)
	assert.ErrorIs(t, err, ErrUnknownAtom)

	b, err := e.AddBond(c.ID, o.ID, model.BondDouble)
	require.NoError(t, err)
	assert.Equal(t, model.BondDouble, b.Kind)

	_, err = e.AddBond(o.ID, c.ID, model.BondSingle)
	assert.ErrorIs(t, err, ErrBondExists)

	last := e.History()[len(e.History())-1]
	assert.Equal(t, history.ActionAddBond, last.Action)
	assert.Equal(t, "Added double", last.Description)
}

func TestChangeBondType(t *testing.T) {
	e := newTestEditor(t, false)
	c1 := place(t, e, "C", 0, 0, 0)
	c2 := place(t, e, "C", 1.5, 0, 0)
	cc, err := e.AddBond(c1.ID, c2.ID, model.BondSingle)
	require.NoError(t, err)

	require.NoError(t, e.ChangeBondType(cc.ID, model.BondDouble))
	require.NoError(t, e.ChangeBondType(cc.ID, model.BondTriple))
	assert.Equal(t, 3, bonding.UsedValence(c1.ID, e.Snapshot().Bonds))

	o := place(t, e, "O", 0, 0, 0)
	h := place(t, e, "H", 1, 0, 0)
	oc := place(t, e, "C", -1.2, 0, 0)
	_, err = e.AddBond(o.ID, h.ID, model.BondSingle)
	require.NoError(t, err)
	ocBond, err := e.AddBond(o.ID, oc.ID, model.BondSingle)
	require.NoError(t, err)

	before := len(e.History())
	err = e.ChangeBondType(ocBond.ID, model.BondDouble)
	assert.ErrorIs(t, err, ErrBondRejected)
	assert.Len(t, e.History(), before)

	assert.ErrorIs(t, e.ChangeBondType("ghost", model.BondSingle), ErrUnknownBond)
	assert.ErrorIs(t, e.ChangeBondType(ocBond.ID, "quadruple"), ErrInvalidBondKind)
	assert.ErrorIs(t, e.ChangeBondType(ocBond.ID, model.BondIonic), ErrBondRejected)
	assert.NoError(t, e.ChangeBondType(ocBond.ID, model.BondHydrogen))
	assertValenceRespected(t, e)
}

func TestMoveAtom(t *testing.T) {
	e := newTestEditor(t, true)
	place(t, e, "C", 0, 0, 0)
	h := place(t, e, "H", 1, 0, 0)
	require.Len(t, e.Snapshot().Bonds, 1)

	require.NoError(t, e.MoveAtom(h.ID, geometry.Vec3{X: 10}))
	assert.Empty(t, e.Snapshot().Bonds, "bond should break past threshold")

	require.NoError(t, e.MoveAtom(h.ID, geometry.Vec3{Y: 1}))
	scene := e.Snapshot()
	assert.Len(t, scene.Bonds, 1, "auto-bond should reconnect")
	moved, _ := model.FindAtom(scene.Atoms, h.ID)
	assert.Equal(t, 1.0, moved.Y)

	assert.ErrorIs(t, e.MoveAtom("ghost", geometry.Vec3{}), ErrUnknownAtom)
}

func TestRemoveAtomAndBond(t *testing.T) {
	e := newTestEditor(t, true)
	c := place(t, e, "C", 0, 0, 0)
	place(t, e, "H", 1, 0, 0)
	place(t, e, "H", -1, 0, 0)
	require.Len(t, e.Snapshot().Bonds, 2)

	bondID := e.Snapshot().Bonds[0].ID
	require.NoError(t, e.RemoveBond(bondID))
	assert.Len(t, e.Snapshot().Bonds, 1)
	assert.ErrorIs(t, e.RemoveBond(bondID), ErrUnknownBond)

	require.NoError(t, e.RemoveAtom(c.ID))
	scene := e.Snapshot()
	assert.Len(t, scene.Atoms, 2)
	assert.Empty(t, scene.Bonds)
	assert.ErrorIs(t, e.RemoveAtom(c.ID), ErrUnknownAtom)
}

func TestUndoRedoRestoresScene(t *testing.T) {
	e := newTestEditor(t, true)
	place(t, e, "C", 0, 0, 0)
	place(t, e, "H", 1, 0, 0)
	after := e.Snapshot()

	require.NoError(t, e.Undo())
	assert.Len(t, e.Snapshot().Atoms, 1)
	assert.Empty(t, e.Snapshot().Bonds)

	require.NoError(t, e.Redo())
	assert.Equal(t, after, e.Snapshot())
	assert.ErrorIs(t, e.Redo(), ErrNothingToRedo)

	// A new edit after undo drops the redo branch.
	require.NoError(t, e.Undo())
	place(t, e, "O", 0, 1, 0)
	assert.False(t, e.CanRedo())
	assert.Equal(t, "CO", e.Formula())
}

func TestJumpTo(t *testing.T) {
	e := newTestEditor(t, true)
	place(t, e, "C", 0, 0, 0)
	place(t, e, "H", 1, 0, 0)
	init := e.History()[0]

	require.NoError(t, e.JumpTo(init.ID))
	assert.Empty(t, e.Snapshot().Atoms)
	assert.ErrorIs(t, e.JumpTo("nope"), ErrUnknownEntry)
}

func TestClearIsUndoable(t *testing.T) {
	e := newTestEditor(t, true)
	place(t, e, "C", 0, 0, 0)
	e.Clear()
	assert.Empty(t, e.Snapshot().Atoms)
	require.NoError(t, e.Undo())
	assert.Len(t, e.Snapshot().Atoms, 1)
}

func TestLoadTemplateAssignsFreshIDs(t *testing.T) {
	e := newTestEditor(t, true)
	require.NoError(t, e.LoadTemplateByID("water"))
	first := e.Snapshot()
	assert.Equal(t, "H2O", first.Formula)
	require.Len(t, first.Bonds, 2)

	atomIDs := map[string]bool{}
	for _, a := range first.Atoms {
		assert.NotContains(t, []string{"o1", "h1", "h2"}, a.ID)
		atomIDs[a.ID] = true
	}
	for _, b := range first.Bonds {
		assert.True(t, atomIDs[b.From] && atomIDs[b.To], "bond %s points outside the scene", b.ID)
	}

	require.NoError(t, e.LoadTemplateByID("water"))
	second := e.Snapshot()
	assert.NotEqual(t, first.Atoms[0].ID, second.Atoms[0].ID)

	last := e.History()[len(e.History())-1]
	assert.Equal(t, "Loaded Water (H2O)", last.Description)

	assert.ErrorIs(t, e.LoadTemplateByID("unobtainium"), ErrUnknownTemplate)
}

func TestAutoCompleteHydrogens(t *testing.T) {
	e := newTestEditor(t, true)
	c := place(t, e, "C", 0, 0, 0)

	n, err := e.AutoCompleteHydrogens()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	scene := e.Snapshot()
	assert.Equal(t, "CH4", scene.Formula)
	assert.InDelta(t, 16.043, scene.Weight, 1e-9)
	for _, a := range scene.Atoms {
		if a.ID == c.ID {
			continue
		}
		assert.InDelta(t, 1.0, bonding.Distance(c, a), 2e-3)
	}
	assertValenceRespected(t, e)

	_, err = e.AutoCompleteHydrogens()
	assert.ErrorIs(t, err, ErrNothingToComplete)
}

func TestAutoCompleteRespectsExistingBonds(t *testing.T) {
	e := newTestEditor(t, false)
	o := place(t, e, "O", 0, 0, 0)
	c := place(t, e, "C", 1.2, 0, 0)
	_, err := e.AddBond(o.ID, c.ID, model.BondDouble)
	require.NoError(t, err)

	n, err := e.AutoCompleteHydrogens()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "carbonyl carbon has two free valences, oxygen none")
	assert.Equal(t, "CH2O", e.Formula())
}

func TestSubscribe(t *testing.T) {
	e := newTestEditor(t, true)
	var actions []string
	unsub := e.Subscribe(func(entry history.Entry) { actions = append(actions, entry.Action) })

	place(t, e, "C", 0, 0, 0)
	require.NoError(t, e.Undo())
	unsub()
	require.NoError(t, e.Redo())

	assert.Equal(t, []string{history.ActionAddAtom, history.ActionInit}, actions)
}

func TestDragSessionRoundTrip(t *testing.T) {
	s := drag(t, "Cl")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "#1FF01F", s.Color)

	data, err := s.Encode()
	require.NoError(t, err)
	got, err := DecodeDragSession(data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Element, got.Element)
	assert.True(t, s.StartedAt.Equal(got.StartedAt))

	_, err = DecodeDragSession([]byte("{not json"))
	assert.Error(t, err)
	_, err = DecodeDragSession([]byte(`{"element":"U"}`))
	assert.ErrorIs(t, err, ErrInvalidElement)

	bare, err := DecodeDragSession([]byte(`{"element":"O"}`))
	require.NoError(t, err)
	assert.Equal(t, "#FF0D0D", bare.Color)
}

func TestApplyScript(t *testing.T) {
	e := newTestEditor(t, true)
	script := `
{"op":"place","element":"C"}
{"op":"place","element":"O","x":1.2}
{"op":"autocomplete"}
{"op":"undo"}
{"op":"redo"}
`
	sc := bufio.NewScanner(strings.NewReader(script))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		op, err := ParseOp([]byte(line))
		require.NoError(t, err)
		require.NoError(t, e.Apply(op), "op %s", line)
	}
	assert.Equal(t, "CH4O", e.Formula())
	assertValenceRespected(t, e)

	_, err := ParseOp([]byte(`{"element":"C"}`))
	assert.Error(t, err)
	assert.Error(t, e.Apply(Op{Op: "teleport"}))
	assert.ErrorIs(t, e.Apply(Op{Op: OpTemplate, Template: "nope"}), ErrUnknownTemplate)
}

func TestApplyPlaceWithDragPayload(t *testing.T) {
	e := newTestEditor(t, true)
	data, err := drag(t, "S").Encode()
	require.NoError(t, err)
	require.NoError(t, e.Apply(Op{Op: OpPlace, Drag: string(data), X: 2}))

	scene := e.Snapshot()
	require.Len(t, scene.Atoms, 1)
	assert.Equal(t, "S", scene.Atoms[0].Element)
	assert.True(t, math.Abs(scene.Atoms[0].X-2) < 1e-12)
}
