package editor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/geometry"
	"github.com/rcliao/molecule-lab/internal/history"
	"github.com/rcliao/molecule-lab/internal/model"
	"github.com/rcliao/molecule-lab/internal/templates"
)

var ErrUnknownCommand = errors.New("unrecognized command")

// Commands add at most this many substituents.
const maxCommandCount = 8

// Command is a parsed "add N <subject> bonded to <target>" instruction.
type Command struct {
	Text    string         `json:"text"`
	Subject string         `json:"subject"`
	Count   int            `json:"count"`
	Kind    model.BondKind `json:"type"`
	Target  string         `json:"target"`
}

const (
	numberPattern  = `(\d+|one|two|three|four|five|six|seven|eight|a|an)`
	elementPattern = `([a-z]+)`
	bondPattern    = `(single|double|triple|ionic|hydrogen|dative)`
)

var (
	// "add 4 hydrogen atoms single-bonded to a carbon atom"
	subjectFirst = regexp.MustCompile(`add\s+` + numberPattern + `\s+` + elementPattern +
		`\s*(?:atoms?)?\s*(?:` + bondPattern + `[-\s]bonded|bonded|attached)\s+to\s+(?:a\s+|an\s+)?` + elementPattern)

	// "add a carbon single-bonded with 4 hydrogen"
	targetFirst = regexp.MustCompile(`add\s+(?:a\s+|an\s+)?` + elementPattern +
		`\s*(?:atoms?)?\s*(?:` + bondPattern + `[-\s]bonded|bonded|attached|connected)\s+(?:with|to)\s+` +
		numberPattern + `\s+` + elementPattern)
)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8,
}

var elementNames = map[string]string{
	"hydrogen":   "H",
	"carbon":     "C",
	"nitrogen":   "N",
	"oxygen":     "O",
	"sulfur":     "S",
	"sulphur":    "S",
	"phosphorus": "P",
	"chlorine":   "Cl",
	"bromine":    "Br",
}

// ParseCommand recognizes a natural-language add command. It reports false
// for anything it cannot map onto known elements.
func ParseCommand(text string) (Command, bool) {
	t := strings.ToLower(strings.TrimSpace(text))

	var count, subject, kind, target string
	if m := subjectFirst.FindStringSubmatch(t); m != nil {
		count, subject, kind, target = m[1], m[2], m[3], m[4]
	} else if m := targetFirst.FindStringSubmatch(t); m != nil {
		target, kind, count, subject = m[1], m[2], m[3], m[4]
	} else {
		return Command{}, false
	}

	n, ok := parseCount(count)
	if !ok {
		return Command{}, false
	}
	subj, ok := lookupElement(subject)
	if !ok {
		return Command{}, false
	}
	targ, ok := lookupElement(target)
	if !ok {
		return Command{}, false
	}
	if kind == "" {
		kind = string(model.BondSingle)
	}
	return Command{
		Text:    strings.TrimSpace(text),
		Subject: subj,
		Count:   n,
		Kind:    model.BondKind(kind),
		Target:  targ,
	}, true
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		n = numberWords[s]
	}
	return n, n >= 1 && n <= maxCommandCount
}

func lookupElement(name string) (string, bool) {
	if sym, ok := elementNames[name]; ok {
		return sym, true
	}
	if sym, ok := elementNames[strings.TrimSuffix(name, "s")]; ok {
		return sym, true
	}
	for sym := range model.ValidElements {
		if strings.EqualFold(sym, name) {
			return sym, true
		}
	}
	return "", false
}

// RunCommand places the command's target atom at pos with Count subject atoms
// arranged around it, each bonded to the target with the command's bond
// kind. Every bond is checked against the valence rules; if any is rejected
// nothing is placed. The whole command is recorded as one history entry.
func (e *Editor) RunCommand(c Command, pos geometry.Vec3) ([]model.Atom, error) {
	for _, el := range []string{c.Target, c.Subject} {
		if !model.ValidElements[el] {
			return nil, fmt.Errorf("run command %q: %q: %w", c.Text, el, ErrInvalidElement)
		}
	}
	if !model.ValidBondKinds[c.Kind] {
		return nil, fmt.Errorf("run command %q: %w", c.Text, ErrInvalidBondKind)
	}
	if c.Count < 1 || c.Count > maxCommandCount {
		return nil, fmt.Errorf("run command %q: count %d: %w", c.Text, c.Count, ErrUnknownCommand)
	}

	cluster := geometry.GenerateVSEPR(c.Count, geometry.Config{
		CenterElement: c.Target,
		OuterElement:  c.Subject,
		BondLength:    templates.DefaultBondLength,
	}, e.ids)

	placed := make([]model.Atom, 0, len(cluster.Atoms))
	for _, a := range cluster.Atoms {
		p := geometry.Vec3{X: a.X, Y: a.Y, Z: a.Z}.Add(pos).Round(3)
		a.X, a.Y, a.Z = p.X, p.Y, p.Z
		placed = append(placed, a)
	}

	center := placed[0]
	bonds := model.CloneBonds(e.bonds)
	for i, b := range cluster.Bonds {
		if !bonding.CanFormBond(center, placed[i+1], bonds, c.Kind) {
			return nil, fmt.Errorf("run command %q: %s bond %s-%s: %w", c.Text, c.Kind, c.Target, c.Subject, ErrBondRejected)
		}
		b.Kind = c.Kind
		bonds = append(bonds, b)
	}

	atoms := append(model.CloneAtoms(e.atoms), placed...)
	e.commit(atoms, bonds, history.ActionVoiceCommand, history.Details{Command: c.Text})
	return model.CloneAtoms(placed), nil
}
