package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// CardCatalog is a mock type for the repository.CardCatalog interface.
type CardCatalog struct {
	mock.Mock
}

func (m *CardCatalog) ListActiveDecks(ctx context.Context) ([]domain.Deck, error) {
	ret := m.Called(ctx)

	var r0 []domain.Deck
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Deck)
	}
	return r0, ret.Error(1)
}

func (m *CardCatalog) FindActiveDeck(ctx context.Context, id uint) (*domain.Deck, error) {
	ret := m.Called(ctx, id)

	var r0 *domain.Deck
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Deck)
	}
	return r0, ret.Error(1)
}

func (m *CardCatalog) ListActiveCardIDs(ctx context.Context, deckID uint) ([]string, error) {
	ret := m.Called(ctx, deckID)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (m *CardCatalog) ResolveCards(ctx context.Context, ids []string) (map[string]domain.Card, error) {
	ret := m.Called(ctx, ids)

	var r0 map[string]domain.Card
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]domain.Card)
	}
	return r0, ret.Error(1)
}

func (m *CardCatalog) DeckBackURL(ctx context.Context, deckID uint) (string, error) {
	ret := m.Called(ctx, deckID)
	return ret.String(0), ret.Error(1)
}
