package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
	"github.com/nastiaetstesha/metadeck/internal/repository/mocks"
	"github.com/nastiaetstesha/metadeck/internal/service"
)

func TestRoomService_Create_Success(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)
	ctx := context.Background()

	catalog.On("FindActiveDeck", ctx, uint(3)).
		Return(&domain.Deck{ID: 3, Title: "Resource Deck", IsActive: true}, nil).Once()
	assignedID := uuid.New()
	roomRepo.On("Create", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		return room.DeckID == 3 &&
			room.Mode == domain.ModePastPresentFuture &&
			room.Title == "Evening group" &&
			room.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Room).ID = assignedID
	}).Return(nil).Once()

	room, err := svc.Create(ctx, 3, domain.ModePastPresentFuture, "Evening group")

	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, assignedID, room.ID)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_Create_InvalidMode(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)

	room, err := svc.Create(context.Background(), 3, domain.SessionMode("seance"), "")

	assert.Nil(t, room)
	assert.ErrorIs(t, err, service.ErrInvalidMode)
	catalog.AssertNotCalled(t, "FindActiveDeck", mock.Anything, mock.Anything)
}

func TestRoomService_Create_DeckMissingOrInactive(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)
	ctx := context.Background()

	catalog.On("FindActiveDeck", ctx, uint(99)).Return(nil, repository.ErrDeckNotFound).Once()

	room, err := svc.Create(ctx, 99, domain.ModeRandomOne, "")

	assert.Nil(t, room)
	assert.ErrorIs(t, err, service.ErrDeckNotFound)
	roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_Close(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)
	ctx := context.Background()
	roomID := uuid.New()

	room := &domain.Room{ID: roomID, DeckID: 1, Mode: domain.ModeRandomOne, IsActive: true}
	roomRepo.On("FindByID", ctx, roomID).Return(room, nil).Once()
	roomRepo.On("Save", ctx, mock.MatchedBy(func(saved *domain.Room) bool {
		return saved.ID == roomID && !saved.IsActive
	})).Return(nil).Once()

	err := svc.Close(ctx, roomID)

	require.NoError(t, err)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_Close_AlreadyClosedIsIdempotent(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)
	ctx := context.Background()
	roomID := uuid.New()

	roomRepo.On("FindByID", ctx, roomID).
		Return(&domain.Room{ID: roomID, IsActive: false}, nil).Once()

	err := svc.Close(ctx, roomID)

	require.NoError(t, err)
	roomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_Close_RoomNotFound(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)
	ctx := context.Background()
	roomID := uuid.New()

	roomRepo.On("FindByID", ctx, roomID).Return(nil, repository.ErrRoomNotFound).Once()

	err := svc.Close(ctx, roomID)

	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestRoomService_FindRoomByID_StorageFailure(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	catalog := new(mocks.CardCatalog)
	svc := service.NewRoomService(roomRepo, catalog)
	ctx := context.Background()
	roomID := uuid.New()

	roomRepo.On("FindByID", ctx, roomID).Return(nil, errors.New("connection reset")).Once()

	room, err := svc.FindRoomByID(ctx, roomID)

	assert.Nil(t, room)
	assert.ErrorIs(t, err, service.ErrInternalServer)
}
