package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
	"github.com/nastiaetstesha/metadeck/internal/repository/mocks"
	"github.com/nastiaetstesha/metadeck/internal/service"
)

func newProjectorFixture() (*service.Projector, *mocks.RoomRepository, *mocks.EventRepository, *mocks.CardCatalog, *mocks.FlipStateRepository) {
	roomRepo := new(mocks.RoomRepository)
	eventRepo := new(mocks.EventRepository)
	catalog := new(mocks.CardCatalog)
	flipRepo := new(mocks.FlipStateRepository)
	projector := service.NewProjector(roomRepo, eventRepo, catalog, flipRepo)
	return projector, roomRepo, eventRepo, catalog, flipRepo
}

func drawEvent(t *testing.T, roomID uuid.UUID, ids []string) *domain.Event {
	t.Helper()
	event := &domain.Event{RoomID: roomID, Kind: domain.EventDraw}
	require.NoError(t, event.SetDrawPayload(domain.DrawPayload{DrawnIDs: ids}))
	return event
}

func TestProjector_Project_OrderedSnapshot(t *testing.T) {
	projector, roomRepo, eventRepo, catalog, flipRepo := newProjectorFixture()
	ctx := context.Background()
	roomID := uuid.New()

	room := &domain.Room{ID: roomID, DeckID: 7, Mode: domain.ModePickOneOfSix, IsActive: true}
	roomRepo.On("FindByID", ctx, roomID).Return(room, nil).Once()
	catalog.On("DeckBackURL", ctx, uint(7)).Return("https://cdn.example/back.png", nil).Once()
	eventRepo.On("LatestByKind", ctx, roomID, domain.EventDraw).
		Return(drawEvent(t, roomID, []string{"12", "3", "8"}), nil).Once()
	catalog.On("ResolveCards", ctx, []string{"12", "3", "8"}).Return(map[string]domain.Card{
		"3":  {ID: 3, ImageFullURL: "https://cdn.example/3.png"},
		"8":  {ID: 8, ImageFullURL: "https://cdn.example/8.png"},
		"12": {ID: 12, ImageFullURL: "https://cdn.example/12.png"},
	}, nil).Once()
	flipRepo.On("Get", ctx, roomID).Return(domain.FlipMap{"3": true}, nil).Once()
	flipRepo.On("Set", ctx, roomID, domain.FlipMap{"12": false, "3": true, "8": false}).Return(nil).Once()

	state, err := projector.Project(ctx, roomID)

	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, domain.ModePickOneOfSix, state.Mode)
	require.Len(t, state.Cards, 3)
	assert.Equal(t, "12", state.Cards[0].ID, "draw order defines display order")
	assert.Equal(t, "3", state.Cards[1].ID)
	assert.Equal(t, "8", state.Cards[2].ID)
	assert.Equal(t, "https://cdn.example/back.png", state.Cards[0].BackURL)
	assert.Equal(t, domain.FlipMap{"12": false, "3": true, "8": false}, state.Flips)
	flipRepo.AssertExpectations(t)
}

func TestProjector_Project_SkipsUnresolvableCards(t *testing.T) {
	projector, roomRepo, eventRepo, catalog, flipRepo := newProjectorFixture()
	ctx := context.Background()
	roomID := uuid.New()

	room := &domain.Room{ID: roomID, DeckID: 2, Mode: domain.ModeRandomOne, IsActive: true}
	roomRepo.On("FindByID", ctx, roomID).Return(room, nil).Once()
	catalog.On("DeckBackURL", ctx, uint(2)).Return("back.png", nil).Once()
	eventRepo.On("LatestByKind", ctx, roomID, domain.EventDraw).
		Return(drawEvent(t, roomID, []string{"1", "deleted", "2"}), nil).Once()
	catalog.On("ResolveCards", ctx, []string{"1", "deleted", "2"}).Return(map[string]domain.Card{
		"1": {ID: 1, ImageFullURL: "1.png"},
		"2": {ID: 2, ImageFullURL: "2.png"},
	}, nil).Once()
	flipRepo.On("Get", ctx, roomID).Return(domain.FlipMap{"deleted": true}, nil).Once()
	// The stale entry is pruned away on write-back.
	flipRepo.On("Set", ctx, roomID, domain.FlipMap{"1": false, "2": false}).Return(nil).Once()

	state, err := projector.Project(ctx, roomID)

	require.NoError(t, err)
	require.Len(t, state.Cards, 2)
	assert.Equal(t, "1", state.Cards[0].ID)
	assert.Equal(t, "2", state.Cards[1].ID)
	assert.NotContains(t, state.Flips, "deleted")
	flipRepo.AssertExpectations(t)
}

func TestProjector_Project_NoDrawHistory(t *testing.T) {
	projector, roomRepo, eventRepo, catalog, flipRepo := newProjectorFixture()
	ctx := context.Background()
	roomID := uuid.New()

	room := &domain.Room{ID: roomID, DeckID: 1, Mode: domain.ModeBlindChoice, IsActive: true}
	roomRepo.On("FindByID", ctx, roomID).Return(room, nil).Once()
	catalog.On("DeckBackURL", ctx, uint(1)).Return("back.png", nil).Once()
	eventRepo.On("LatestByKind", ctx, roomID, domain.EventDraw).Return(nil, repository.ErrNotFound).Once()
	catalog.On("ResolveCards", ctx, []string{}).Return(map[string]domain.Card{}, nil).Once()
	flipRepo.On("Get", ctx, roomID).Return(domain.FlipMap{}, nil).Once()
	flipRepo.On("Set", ctx, roomID, domain.FlipMap{}).Return(nil).Once()

	state, err := projector.Project(ctx, roomID)

	require.NoError(t, err)
	assert.Empty(t, state.Cards)
	assert.Empty(t, state.Flips)
}

func TestProjector_Project_MissingBackAssetDegrades(t *testing.T) {
	projector, roomRepo, eventRepo, catalog, flipRepo := newProjectorFixture()
	ctx := context.Background()
	roomID := uuid.New()

	room := &domain.Room{ID: roomID, DeckID: 4, Mode: domain.ModeRandomOne, IsActive: true}
	roomRepo.On("FindByID", ctx, roomID).Return(room, nil).Once()
	catalog.On("DeckBackURL", ctx, uint(4)).Return("", errors.New("asset lookup failed")).Once()
	eventRepo.On("LatestByKind", ctx, roomID, domain.EventDraw).
		Return(drawEvent(t, roomID, []string{"5"}), nil).Once()
	catalog.On("ResolveCards", ctx, []string{"5"}).Return(map[string]domain.Card{
		"5": {ID: 5, ImageFullURL: "5.png"},
	}, nil).Once()
	flipRepo.On("Get", ctx, roomID).Return(domain.FlipMap{}, nil).Once()
	flipRepo.On("Set", ctx, roomID, domain.FlipMap{"5": false}).Return(nil).Once()

	state, err := projector.Project(ctx, roomID)

	require.NoError(t, err)
	require.Len(t, state.Cards, 1)
	assert.Equal(t, "", state.Cards[0].BackURL)
}

func TestProjector_Project_FlipCacheFailureAssumesFaceDown(t *testing.T) {
	projector, roomRepo, eventRepo, catalog, flipRepo := newProjectorFixture()
	ctx := context.Background()
	roomID := uuid.New()

	room := &domain.Room{ID: roomID, DeckID: 3, Mode: domain.ModeRandomOne, IsActive: true}
	roomRepo.On("FindByID", ctx, roomID).Return(room, nil).Once()
	catalog.On("DeckBackURL", ctx, uint(3)).Return("back.png", nil).Once()
	eventRepo.On("LatestByKind", ctx, roomID, domain.EventDraw).
		Return(drawEvent(t, roomID, []string{"9"}), nil).Once()
	catalog.On("ResolveCards", ctx, []string{"9"}).Return(map[string]domain.Card{
		"9": {ID: 9, ImageFullURL: "9.png"},
	}, nil).Once()
	flipRepo.On("Get", ctx, roomID).Return(nil, errors.New("redis down")).Once()
	flipRepo.On("Set", ctx, roomID, domain.FlipMap{"9": false}).Return(errors.New("redis down")).Once()

	state, err := projector.Project(ctx, roomID)

	require.NoError(t, err, "cache failures must not fail the projection")
	assert.Equal(t, domain.FlipMap{"9": false}, state.Flips)
}

func TestProjector_Project_RoomNotFound(t *testing.T) {
	projector, roomRepo, _, _, _ := newProjectorFixture()
	ctx := context.Background()
	roomID := uuid.New()

	roomRepo.On("FindByID", ctx, roomID).Return(nil, repository.ErrRoomNotFound).Once()

	state, err := projector.Project(ctx, roomID)

	assert.Nil(t, state)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}
