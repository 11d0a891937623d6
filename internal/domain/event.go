package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventKind enumerates the kinds of session events kept in the log.
type EventKind string

const (
	EventDraw  EventKind = "draw"
	EventPick  EventKind = "pick"
	EventFlip  EventKind = "flip"
	EventReset EventKind = "reset"
)

// Event is one immutable record in a room's history. The log is append-only;
// the current drawn set of a room is defined by the payload of its most
// recent draw event, not by an aggregate over the log.
type Event struct {
	ID     uint      `gorm:"primaryKey"`
	RoomID uuid.UUID `gorm:"type:char(36);index:idx_events_room_kind;index:idx_events_room_created;not null"`
	Kind   EventKind `gorm:"size:16;index:idx_events_room_kind;not null"`

	Payload datatypes.JSON `gorm:"not null"`

	// Set for pick-style events that single out one card.
	ChosenCardID *uint `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_events_room_created"`
}

// DrawPayload is the payload of draw events. DrawnIDs is the ordered list of
// wire card ids; order is display order. A reset is a draw with an empty
// list.
type DrawPayload struct {
	DrawnIDs []string `json:"drawn_ids"`
}

// SetDrawPayload serializes p into the event's payload column.
func (e *Event) SetDrawPayload(p DrawPayload) error {
	if p.DrawnIDs == nil {
		p.DrawnIDs = []string{}
	}
	bytes, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal draw payload: %w", err)
	}
	e.Payload = datatypes.JSON(bytes)
	return nil
}

// ParseDrawPayload decodes the event's payload as a DrawPayload. An empty
// payload parses as an empty drawn set.
func (e *Event) ParseDrawPayload() (DrawPayload, error) {
	var p DrawPayload
	if len(e.Payload) == 0 {
		p.DrawnIDs = []string{}
		return p, nil
	}
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return p, fmt.Errorf("unmarshal draw payload (event id %d): %w", e.ID, err)
	}
	if p.DrawnIDs == nil {
		p.DrawnIDs = []string{}
	}
	return p, nil
}
