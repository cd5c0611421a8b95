package history

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Action tags recorded with each entry.
const (
	ActionInit           = "INIT"
	ActionAddAtom        = "ADD_ATOM"
	ActionRemoveAtom     = "REMOVE_ATOM"
	ActionMoveAtom       = "MOVE_ATOM"
	ActionAddBond        = "ADD_BOND"
	ActionRemoveBond     = "REMOVE_BOND"
	ActionChangeBondType = "CHANGE_BOND_TYPE"
	ActionLoadTemplate   = "LOAD_TEMPLATE"
	ActionClearScene     = "CLEAR_SCENE"
	ActionUndo           = "UNDO"
	ActionRedo           = "REDO"
	ActionAutoComplete   = "AUTO_COMPLETE"
	ActionVoiceCommand   = "VOICE_COMMAND"
)

// Details carries the optional subjects of an action description.
type Details struct {
	Element      string
	BondType     string
	TemplateName string
	Command      string
}

// Describe returns the human-readable description for an action.
func Describe(action string, d Details) string {
	switch action {
	case ActionInit:
		return "Started new scene"
	case ActionAddAtom:
		return "Added " + or(d.Element, "atom")
	case ActionRemoveAtom:
		return "Removed " + or(d.Element, "atom")
	case ActionMoveAtom:
		return "Moved " + or(d.Element, "atom")
	case ActionAddBond:
		return "Added " + or(d.BondType, "bond")
	case ActionRemoveBond:
		return "Removed bond"
	case ActionChangeBondType:
		return "Changed to " + or(d.BondType, "bond")
	case ActionLoadTemplate:
		return "Loaded " + or(d.TemplateName, "template")
	case ActionClearScene:
		return "Cleared scene"
	case ActionUndo:
		return "Undid last action"
	case ActionRedo:
		return "Redid last action"
	case ActionAutoComplete:
		return "Auto-completed with hydrogen"
	case ActionVoiceCommand:
		return "Voice: " + or(d.Command, "command")
	default:
		return "Unknown action"
	}
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// FormatAge renders how long ago ts was relative to now.
func FormatAge(ts, now time.Time) string {
	if now.Sub(ts) < 5*time.Second {
		return "just now"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
