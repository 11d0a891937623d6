package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// StateProjector derives the current visible state of a room.
type StateProjector interface {
	Project(ctx context.Context, roomID uuid.UUID) (*domain.RoomState, error)
}

// Projector combines the event log (authoritative for the drawn set) with the
// flip cache (authoritative for orientation only) into a RoomState snapshot.
// It never writes to the event log; its only side effect is pruning stale
// flip entries back into the cache.
type Projector struct {
	roomRepo  repository.RoomRepository
	eventRepo repository.EventRepository
	catalog   repository.CardCatalog
	flipRepo  repository.FlipStateRepository
}

func NewProjector(
	roomRepo repository.RoomRepository,
	eventRepo repository.EventRepository,
	catalog repository.CardCatalog,
	flipRepo repository.FlipStateRepository,
) *Projector {
	if roomRepo == nil || eventRepo == nil || catalog == nil || flipRepo == nil {
		panic("all repositories must be non-nil for Projector")
	}
	return &Projector{
		roomRepo:  roomRepo,
		eventRepo: eventRepo,
		catalog:   catalog,
		flipRepo:  flipRepo,
	}
}

// Project builds the room's snapshot: the ordered drawn set from the latest
// draw event, card assets resolved through the catalog, and the flip overlay
// pruned to exactly the resolved ids.
func (p *Projector) Project(ctx context.Context, roomID uuid.UUID) (*domain.RoomState, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "operation": "project"})

	room, err := p.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room")
		return nil, err
	}

	// A missing back asset renders as an empty url, never as a failure.
	backURL, err := p.catalog.DeckBackURL(ctx, room.DeckID)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to resolve deck back url, using empty string")
		backURL = ""
	}

	drawnIDs, err := p.currentDrawnIDs(ctx, roomID)
	if err != nil {
		return nil, err
	}

	resolved, err := p.catalog.ResolveCards(ctx, drawnIDs)
	if err != nil {
		logCtx.WithError(err).Error("Failed to resolve drawn cards")
		return nil, err
	}

	// Preserve the draw order; ids that no longer resolve are skipped.
	cards := make([]domain.CardView, 0, len(drawnIDs))
	visibleIDs := make([]string, 0, len(drawnIDs))
	for _, id := range drawnIDs {
		card, ok := resolved[id]
		if !ok {
			continue
		}
		cards = append(cards, domain.CardView{
			ID:       id,
			FrontURL: card.ImageFullURL,
			BackURL:  backURL,
		})
		visibleIDs = append(visibleIDs, id)
	}

	// The cache is a lossy overlay: a read failure degrades to all face-down
	// rather than failing the projection.
	flips, err := p.flipRepo.Get(ctx, roomID)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to read flip cache, assuming face-down")
		flips = domain.FlipMap{}
	}
	pruned := flips.Prune(visibleIDs)

	// Write the pruned map back so stale entries do not accumulate. Best
	// effort: the next projection self-heals again if this write is lost.
	if err := p.flipRepo.Set(ctx, roomID, pruned); err != nil {
		logCtx.WithError(err).Warn("Failed to write pruned flips back to cache")
	}

	return &domain.RoomState{
		Mode:  room.Mode,
		Cards: cards,
		Flips: pruned,
	}, nil
}

// currentDrawnIDs returns the ordered drawn set from the latest draw event,
// or an empty list when the room has no draw history yet.
func (p *Projector) currentDrawnIDs(ctx context.Context, roomID uuid.UUID) ([]string, error) {
	latest, err := p.eventRepo.LatestByKind(ctx, roomID, domain.EventDraw)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []string{}, nil
		}
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to load latest draw event")
		return nil, err
	}
	payload, err := latest.ParseDrawPayload()
	if err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to parse draw payload")
		return nil, err
	}
	return payload.DrawnIDs, nil
}
