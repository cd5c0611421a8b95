package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/model"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want Command
		ok   bool
	}{
		{
			text: "add 4 hydrogen atoms single-bonded to a carbon atom",
			want: Command{Subject: "H", Count: 4, Kind: model.BondSingle, Target: "C"},
			ok:   true,
		},
		{
			text: "Add two hydrogens bonded to an oxygen",
			want: Command{Subject: "H", Count: 2, Kind: model.BondSingle, Target: "O"},
			ok:   true,
		},
		{
			text: "add a carbon double bonded with 2 oxygen",
			want: Command{Subject: "O", Count: 2, Kind: model.BondDouble, Target: "C"},
			ok:   true,
		},
		{
			text: "add three cl attached to p",
			want: Command{Subject: "Cl", Count: 3, Kind: model.BondSingle, Target: "P"},
			ok:   true,
		},
		{text: "add 4 unobtainium bonded to carbon"},
		{text: "add 12 hydrogen bonded to carbon"},
		{text: "add carbon"},
		{text: "make me a sandwich"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			tt.want.Text = tt.text
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunCommand(t *testing.T) {
	e := newTestEditor(t, true)
	c, ok := ParseCommand("add 4 hydrogen atoms single-bonded to a carbon atom")
	require.True(t, ok)

	placed, err := e.RunCommand(c, geometry.Vec3{X: 5})
	require.NoError(t, err)
	require.Len(t, placed, 5)
	assert.Equal(t, "C", placed[0].Element)
	assert.Equal(t, 5.0, placed[0].X)

	scene := e.Snapshot()
	assert.Equal(t, "CH4", scene.Formula)
	assert.Len(t, scene.Bonds, 4)
	for _, a := range placed[1:] {
		assert.InDelta(t, 1.5, bonding.Distance(placed[0], a), 2e-3)
	}
	assertValenceRespected(t, e)
	assert.True(t, e.Validate().Valid)

	h := e.History()
	require.Len(t, h, 2)
	assert.Equal(t, history.ActionVoiceCommand, h[1].Action)
	assert.Equal(t, "Voice: add 4 hydrogen atoms single-bonded to a carbon atom", h[1].Description)

	// One undo removes the whole command.
	require.NoError(t, e.Undo())
	assert.Empty(t, e.Snapshot().Atoms)
}

func TestRunCommandRejectedLeavesSceneUntouched(t *testing.T) {
	e := newTestEditor(t, true)
	place(t, e, "C", 0, 0, 0)
	before := e.Snapshot()

	c, ok := ParseCommand("add 3 hydrogen bonded to oxygen")
	require.True(t, ok)
	_, err := e.RunCommand(c, geometry.Vec3{X: 10})
	assert.ErrorIs(t, err, ErrBondRejected)
	assert.Equal(t, before, e.Snapshot())
	assert.Len(t, e.History(), 2)

	_, err = e.RunCommand(Command{Subject: "H", Count: 1, Kind: model.BondSingle, Target: "Xe"}, geometry.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidElement)
}

func TestApplyCommandOp(t *testing.T) {
	e := newTestEditor(t, true)
	op, err := ParseOp([]byte(`{"op":"command","text":"add 2 hydrogen bonded to oxygen"}`))
	require.NoError(t, err)
	require.NoError(t, e.Apply(op))
	assert.Equal(t, "H2O", e.Formula())

	assert.ErrorIs(t, e.Apply(Op{Op: OpCommand, Text: "sing a song"}), ErrUnknownCommand)
}

func TestValidateOp(t *testing.T) {
	e := newTestEditor(t, true)
	require.NoError(t, e.LoadTemplateByID("water"))
	require.NoError(t, e.Apply(Op{Op: OpValidate}))

	place(t, e, "C", 20, 0, 0)
	entries := len(e.History())
	res := e.Validate()
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, bonding.SuggestAddHydrogen, res.Suggestions[0].Kind)

	assert.ErrorIs(t, e.Apply(Op{Op: OpValidate}), ErrInvalidStructure)
	assert.Len(t, e.History(), entries, "validate records nothing")
}

func TestAutoBondLeavesTemplatesAlone(t *testing.T) {
	for _, id := range []string{"benzene-ring", "glucose", "caffeine", "ethanol", "cyclohexane-chair"} {
		t.Run(id, func(t *testing.T) {
			e := newTestEditor(t, true)
			require.NoError(t, e.LoadTemplateByID(id))
			before := e.Snapshot().Bonds

			place(t, e, "O", 100, 100, 100)
			assert.Equal(t, before, e.Snapshot().Bonds)
		})
	}
}

func TestAutoBondOnlyTouchesPlacedAtom(t *testing.T) {
	e := newTestEditor(t, true)
	require.NoError(t, e.LoadTemplateByID("benzene-ring"))
	before := e.Snapshot().Bonds

	// Close enough to bond with ring carbons.
	o := place(t, e, "O", 0, 0, 1.5)
	after := e.Snapshot().Bonds
	assert.Equal(t, before, after[:len(before)])
	for _, b := range after[len(before):] {
		assert.True(t, b.Touches(o.ID), "bond %s-%s does not involve the placed atom", b.From, b.To)
	}
}
