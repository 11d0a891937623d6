package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// GormCardCatalog is the GORM implementation of the read-only deck/card
// catalog.
type GormCardCatalog struct {
	db *gorm.DB
}

func NewGormCardCatalog(db *gorm.DB) *GormCardCatalog {
	if db == nil {
		panic("database connection cannot be nil for GormCardCatalog")
	}
	return &GormCardCatalog{db: db}
}

func (c *GormCardCatalog) ListActiveDecks(ctx context.Context) ([]domain.Deck, error) {
	var decks []domain.Deck
	err := c.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("title").
		Find(&decks).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list active decks: %w", err)
	}
	return decks, nil
}

func (c *GormCardCatalog) FindActiveDeck(ctx context.Context, id uint) (*domain.Deck, error) {
	var deck domain.Deck
	err := c.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&deck).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeckNotFound
		}
		return nil, fmt.Errorf("gorm: find active deck %d: %w", id, err)
	}
	return &deck, nil
}

func (c *GormCardCatalog) ListActiveCardIDs(ctx context.Context, deckID uint) ([]string, error) {
	var rawIDs []uint
	err := c.db.WithContext(ctx).Model(&domain.Card{}).
		Where("deck_id = ? AND is_active = ?", deckID, true).
		Pluck("id", &rawIDs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list active card ids for deck %d: %w", deckID, err)
	}
	ids := make([]string, len(rawIDs))
	for i, id := range rawIDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return ids, nil
}

// ResolveCards silently drops ids that are not numeric or no longer exist;
// the projector treats those as soft-deleted.
func (c *GormCardCatalog) ResolveCards(ctx context.Context, ids []string) (map[string]domain.Card, error) {
	resolved := make(map[string]domain.Card, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}
	numeric := make([]uint, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			continue
		}
		numeric = append(numeric, uint(n))
	}
	var cards []domain.Card
	err := c.db.WithContext(ctx).Where("id IN ?", numeric).Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: resolve cards: %w", err)
	}
	for _, card := range cards {
		resolved[card.WireID()] = card
	}
	return resolved, nil
}

func (c *GormCardCatalog) DeckBackURL(ctx context.Context, deckID uint) (string, error) {
	var deck domain.Deck
	err := c.db.WithContext(ctx).Select("back_full_url").First(&deck, deckID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("gorm: deck back url for deck %d: %w", deckID, err)
	}
	return deck.BackFullURL, nil
}
