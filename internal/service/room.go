package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// RoomService handles room lifecycle outside the realtime channel: creation
// over plain HTTP and the explicit close that flips IsActive off.
type RoomService struct {
	roomRepo repository.RoomRepository
	catalog  repository.CardCatalog
}

func NewRoomService(roomRepo repository.RoomRepository, catalog repository.CardCatalog) *RoomService {
	if roomRepo == nil || catalog == nil {
		panic("RoomRepository and CardCatalog cannot be nil for RoomService")
	}
	return &RoomService{
		roomRepo: roomRepo,
		catalog:  catalog,
	}
}

// Create mints a new room bound to an active deck and a supported mode. The
// returned room id is the address clients connect to.
func (s *RoomService) Create(ctx context.Context, deckID uint, mode domain.SessionMode, title string) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"deck_id": deckID, "mode": mode})

	if !mode.Valid() {
		logCtx.Warn("Rejecting room creation with unsupported mode")
		return nil, ErrInvalidMode
	}

	deck, err := s.catalog.FindActiveDeck(ctx, deckID)
	if err != nil {
		if errors.Is(err, repository.ErrDeckNotFound) {
			logCtx.Warn("Rejecting room creation for missing or inactive deck")
			return nil, ErrDeckNotFound
		}
		logCtx.WithError(err).Error("Failed to look up deck")
		return nil, ErrInternalServer
	}

	room := &domain.Room{
		DeckID:   deck.ID,
		Mode:     mode,
		Title:    title,
		IsActive: true,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to create room")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.ID).Info("Room created")
	return room, nil
}

// FindRoomByID resolves a room for the websocket handler; a not-found result
// rejects the connection before the upgrade.
func (s *RoomService) FindRoomByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to load room")
		return nil, ErrInternalServer
	}
	return room, nil
}

// Close marks the room inactive. The room stays readable; mutating realtime
// actions start dropping.
func (s *RoomService) Close(ctx context.Context, roomID uuid.UUID) error {
	logCtx := logrus.WithField("room_id", roomID)

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room for close")
		return ErrInternalServer
	}
	if !room.IsActive {
		return nil
	}
	room.IsActive = false
	if err := s.roomRepo.Save(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save closed room")
		return ErrInternalServer
	}
	logCtx.Info("Room closed")
	return nil
}
