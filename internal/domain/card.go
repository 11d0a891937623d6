package domain

import (
	"strconv"
	"time"
)

// Deck is a deck of metaphorical cards. Decks and cards are a read-only
// catalog as far as the realtime core is concerned.
type Deck struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:120;uniqueIndex;not null"`
	Description string `gorm:"type:text"`

	// Back side of the deck, shared by all of its cards.
	BackPreviewURL string `gorm:"size:500"`
	BackFullURL    string `gorm:"size:500"`

	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Card is a single card inside a deck. Only active cards are eligible to be
// drawn.
type Card struct {
	ID     uint `gorm:"primaryKey"`
	DeckID uint `gorm:"index:idx_cards_deck_active;not null"`

	Title string `gorm:"size:120"`
	// Optional code unique inside the deck, useful for imports.
	Code string `gorm:"size:50;index"`

	ImagePreviewURL string `gorm:"size:500"`
	ImageFullURL    string `gorm:"size:500"`

	// Ordering inside the deck for catalog views.
	Position uint `gorm:"not null;default:0"`

	IsActive  bool      `gorm:"index:idx_cards_deck_active;not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// WireID returns the card id as it appears on the websocket wire. Drawn sets
// and flip maps are keyed by this string form.
func (c Card) WireID() string {
	return strconv.FormatUint(uint64(c.ID), 10)
}
