package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionMode is the interaction mode a room is created with. It is fixed at
// creation and only affects how clients render the drawn set.
type SessionMode string

const (
	ModeRandomOne           SessionMode = "random_one"
	ModePickOneOfSix        SessionMode = "pick_one_of_six"
	ModePastPresentFuture   SessionMode = "past_present_future"
	ModeResourceBlockAction SessionMode = "resource_block_action"
	ModeEmotionPlusCard     SessionMode = "emotion_plus_card"
	ModeBlindChoice         SessionMode = "blind_choice"
)

// Modes lists every supported session mode.
func Modes() []SessionMode {
	return []SessionMode{
		ModeRandomOne,
		ModePickOneOfSix,
		ModePastPresentFuture,
		ModeResourceBlockAction,
		ModeEmotionPlusCard,
		ModeBlindChoice,
	}
}

// Valid reports whether m is one of the supported modes.
func (m SessionMode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// Room is a realtime session bound to one deck and one mode. The deck
// reference is immutable after creation; only IsActive is ever updated.
type Room struct {
	ID        uuid.UUID   `gorm:"type:char(36);primaryKey"`
	DeckID    uint        `gorm:"index;not null"`
	Mode      SessionMode `gorm:"size:32;not null"`
	Title     string      `gorm:"size:120"`
	IsActive  bool        `gorm:"not null;default:true"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index"`
}

// BeforeCreate assigns the room id so it can be handed out before the insert
// round-trips.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
