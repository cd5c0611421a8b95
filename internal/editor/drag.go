package editor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/molecule-lab/internal/bonding"
	"github.com/rcliao/molecule-lab/internal/model"
)

// DragSession carries an element from the palette to a drop point. It is
// passed by value and travels as JSON in the drag payload.
type DragSession struct {
	ID        string    `json:"id"`
	Element   string    `json:"element"`
	Color     string    `json:"color"`
	StartedAt time.Time `json:"started_at"`
}

// BeginDrag starts a drag for the given element symbol.
func BeginDrag(element string) (DragSession, error) {
	if !model.ValidElements[element] {
		return DragSession{}, fmt.Errorf("begin drag %q: %w", element, ErrInvalidElement)
	}
	color, _ := bonding.Color(element)
	return DragSession{
		ID:        uuid.NewString(),
		Element:   element,
		Color:     color,
		StartedAt: time.Now().UTC(),
	}, nil
}

// Encode returns the drag payload.
func (s DragSession) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeDragSession parses and validates a drag payload.
func DecodeDragSession(data []byte) (DragSession, error) {
	var s DragSession
	if err := json.Unmarshal(data, &s); err != nil {
		return DragSession{}, fmt.Errorf("decode drag session: %w", err)
	}
	if !model.ValidElements[s.Element] {
		return DragSession{}, fmt.Errorf("decode drag session: element %q: %w", s.Element, ErrInvalidElement)
	}
	if s.Color == "" {
		s.Color, _ = bonding.Color(s.Element)
	}
	return s, nil
}
