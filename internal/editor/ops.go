package editor

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/model"
)

// Op names.
const (
	OpPlace        = "place"
	OpMove         = "move"
	OpRemoveAtom   = "remove_atom"
	OpAddBond      = "add_bond"
	OpRemoveBond   = "remove_bond"
	OpChangeBond   = "change_bond"
	OpTemplate     = "template"
	OpClear        = "clear"
	OpAutoComplete = "autocomplete"
	OpUndo         = "undo"
	OpRedo         = "redo"
	OpJump         = "jump"
	OpCommand      = "command"
	OpValidate     = "validate"
)

// Op is a JSON-encodable edit command, one per line in edit scripts and one
// per frame on the collaboration socket.
type Op struct {
	Op       string         `json:"op"`
	Element  string         `json:"element,omitempty"`
	Drag     string         `json:"drag,omitempty"`
	X        float64        `json:"x,omitempty"`
	Y        float64        `json:"y,omitempty"`
	Z        float64        `json:"z,omitempty"`
	Atom     string         `json:"atom,omitempty"`
	Bond     string         `json:"bond,omitempty"`
	From     string         `json:"from,omitempty"`
	To       string         `json:"to,omitempty"`
	Kind     model.BondKind `json:"type,omitempty"`
	BondTo   []BondRequest  `json:"bond_to,omitempty"`
	Template string         `json:"template,omitempty"`
	Entry    string         `json:"entry,omitempty"`
	Text     string         `json:"text,omitempty"`
}

// ParseOp decodes a single JSON op.
func ParseOp(data []byte) (Op, error) {
	var op Op
	if err := json.Unmarshal(data, &op); err != nil {
		return Op{}, fmt.Errorf("parse op: %w", err)
	}
	if op.Op == "" {
		return Op{}, fmt.Errorf("parse op: missing op name")
	}
	return op, nil
}

// Apply dispatches op to the matching editor method.
func (e *Editor) Apply(op Op) error {
	pos := geometry.Vec3{X: op.X, Y: op.Y, Z: op.Z}

	switch op.Op {
	case OpPlace:
		s, err := dragFor(op)
		if err != nil {
			return err
		}
		_, err = e.PlaceAtom(s, pos, op.BondTo...)
		return err
	case OpMove:
		return e.MoveAtom(op.Atom, pos)
	case OpRemoveAtom:
		return e.RemoveAtom(op.Atom)
	case OpAddBond:
		kind := op.Kind
		if kind == "" {
			kind = model.BondSingle
		}
		_, err := e.AddBond(op.From, op.To, kind)
		return err
	case OpRemoveBond:
		return e.RemoveBond(op.Bond)
	case OpChangeBond:
		return e.ChangeBondType(op.Bond, op.Kind)
	case OpTemplate:
		return e.LoadTemplateByID(op.Template)
	case OpClear:
		e.Clear()
		return nil
	case OpAutoComplete:
		_, err := e.AutoCompleteHydrogens()
		return err
	case OpUndo:
		return e.Undo()
	case OpRedo:
		return e.Redo()
	case OpJump:
		return e.JumpTo(op.Entry)
	case OpCommand:
		c, ok := ParseCommand(op.Text)
		if !ok {
			return fmt.Errorf("command %q: %w", op.Text, ErrUnknownCommand)
		}
		_, err := e.RunCommand(c, pos)
		return err
	case OpValidate:
		// Records nothing; fails when the scene does not validate.
		if res := e.Validate(); !res.Valid {
			return fmt.Errorf("validate: %d warnings: %w", len(res.Warnings), ErrInvalidStructure)
		}
		return nil
	default:
		return fmt.Errorf("apply op %q: unknown op", op.Op)
	}
}

// dragFor returns the drag session carried by op, or starts one from its
// element when no payload is attached.
func dragFor(op Op) (DragSession, error) {
	if op.Drag != "" {
		return DecodeDragSession([]byte(op.Drag))
	}
	return BeginDrag(op.Element)
}
