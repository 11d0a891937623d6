package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// RetentionService deletes rooms and events past their retention age. It runs
// from the background worker, independent of live rooms: the cutoff is purely
// age-based, so a room younger than the threshold is never touched no matter
// how inactive it is.
type RetentionService struct {
	roomRepo  repository.RoomRepository
	eventRepo repository.EventRepository
}

func NewRetentionService(roomRepo repository.RoomRepository, eventRepo repository.EventRepository) *RetentionService {
	if roomRepo == nil || eventRepo == nil {
		panic("RoomRepository and EventRepository cannot be nil for RetentionService")
	}
	return &RetentionService{
		roomRepo:  roomRepo,
		eventRepo: eventRepo,
	}
}

// Cleanup removes rooms created before now-maxAge (optionally only inactive
// ones) together with their events, then sweeps stray events older than the
// cutoff whose rooms were kept or already gone. Returns the deleted room and
// event counts.
func (s *RetentionService) Cleanup(ctx context.Context, maxAge time.Duration, onlyInactive bool) (int64, int64, error) {
	cutoff := time.Now().Add(-maxAge)
	logCtx := logrus.WithFields(logrus.Fields{
		"component":     "retention",
		"cutoff":        cutoff.Format(time.RFC3339),
		"only_inactive": onlyInactive,
	})

	roomIDs, err := s.roomRepo.FindCreatedBefore(ctx, cutoff, onlyInactive)
	if err != nil {
		logCtx.WithError(err).Error("Failed to find expired rooms")
		return 0, 0, err
	}

	// Events first, then their rooms; room deletion owns its events.
	eventsDeleted, err := s.eventRepo.DeleteByRoomIDs(ctx, roomIDs)
	if err != nil {
		logCtx.WithError(err).Error("Failed to delete events of expired rooms")
		return 0, 0, err
	}
	roomsDeleted, err := s.roomRepo.DeleteByIDs(ctx, roomIDs)
	if err != nil {
		logCtx.WithError(err).Error("Failed to delete expired rooms")
		return 0, eventsDeleted, err
	}

	strayEvents, err := s.eventRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sweep stray events")
		return roomsDeleted, eventsDeleted, err
	}
	eventsDeleted += strayEvents

	logCtx.WithFields(logrus.Fields{
		"rooms_deleted":  roomsDeleted,
		"events_deleted": eventsDeleted,
	}).Info("Retention sweep completed")
	return roomsDeleted, eventsDeleted, nil
}
