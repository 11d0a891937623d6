package repository

import (
	"context"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// CardCatalog is the read-only view of decks and cards the realtime core
// draws from.
type CardCatalog interface {
	// ListActiveDecks returns all active decks ordered by title.
	ListActiveDecks(ctx context.Context) ([]domain.Deck, error)

	// FindActiveDeck returns the deck or ErrDeckNotFound when it does not
	// exist or is inactive.
	FindActiveDeck(ctx context.Context, id uint) (*domain.Deck, error)

	// ListActiveCardIDs returns the wire ids of the deck's active cards.
	ListActiveCardIDs(ctx context.Context, deckID uint) ([]string, error)

	// ResolveCards maps wire ids to cards. Ids that no longer resolve are
	// simply absent from the result, never an error.
	ResolveCards(ctx context.Context, ids []string) (map[string]domain.Card, error)

	// DeckBackURL returns the deck's back asset url, or the empty string when
	// the deck or its asset is missing. Only storage failures are errors.
	DeckBackURL(ctx context.Context, deckID uint) (string, error)
}
