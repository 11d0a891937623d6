package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// Outcome is what the hub should broadcast after an accepted action. Exactly
// one of State and Flip is set: draw/reset produce a full snapshot for every
// participant, a flip produces only the point delta. A nil Outcome means the
// action was silently dropped and nothing changed.
type Outcome struct {
	State *domain.RoomState
	Flip  *domain.FlipUpdate
}

// inboundMessage is the wire shape of client actions.
type inboundMessage struct {
	Action  string  `json:"action"`
	CardID  *wireID `json:"card_id"`
	Flipped *bool   `json:"flipped"`
}

// wireID accepts a card id sent either as a JSON string or a number; both
// occur in the wild and normalize to the string form.
type wireID string

func (w *wireID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*w = wireID(n.String())
		return nil
	}
	return fmt.Errorf("card_id must be a string or number")
}

// drawCounts maps draw actions to how many cards they deal.
var drawCounts = map[string]int{
	"draw_one":   1,
	"draw_three": 3,
	"draw_six":   6,
}

// SessionService is the room protocol state machine. It validates inbound
// actions against the projected state, mutates the event log and flip cache,
// and tells the caller what to broadcast. It holds no per-connection state;
// everything durable lives in the repositories.
type SessionService struct {
	roomRepo  repository.RoomRepository
	eventRepo repository.EventRepository
	catalog   repository.CardCatalog
	flipRepo  repository.FlipStateRepository
	projector StateProjector
}

func NewSessionService(
	roomRepo repository.RoomRepository,
	eventRepo repository.EventRepository,
	catalog repository.CardCatalog,
	flipRepo repository.FlipStateRepository,
	projector StateProjector,
) *SessionService {
	if roomRepo == nil || eventRepo == nil || catalog == nil || flipRepo == nil || projector == nil {
		panic("all dependencies must be non-nil for SessionService")
	}
	return &SessionService{
		roomRepo:  roomRepo,
		eventRepo: eventRepo,
		catalog:   catalog,
		flipRepo:  flipRepo,
		projector: projector,
	}
}

// HandleAction processes one raw inbound message. Malformed messages, unknown
// actions, stale flips and mutations on inactive rooms all drop silently:
// nil outcome, nil error, zero state change. Storage failures surface as
// errors and nothing is broadcast.
func (s *SessionService) HandleAction(ctx context.Context, roomID uuid.UUID, raw []byte) (*Outcome, error) {
	logCtx := logrus.WithField("room_id", roomID)

	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logCtx.WithError(err).Debug("Dropping malformed message")
		return nil, nil
	}

	if count, ok := drawCounts[msg.Action]; ok {
		return s.draw(ctx, roomID, count)
	}

	switch msg.Action {
	case "reset":
		return s.reset(ctx, roomID)
	case "flip":
		if msg.CardID == nil || msg.Flipped == nil {
			logCtx.Debug("Dropping flip with missing fields")
			return nil, nil
		}
		return s.flip(ctx, roomID, string(*msg.CardID), *msg.Flipped)
	default:
		logCtx.WithField("action", msg.Action).Debug("Dropping unknown action")
		return nil, nil
	}
}

// draw deals a fresh drawn set: a uniform shuffle of the deck's active cards,
// truncated to count when the deck is large enough. The new set always starts
// fully face-down, even for cards carried over from the previous draw.
func (s *SessionService) draw(ctx context.Context, roomID uuid.UUID, count int) (*Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "action": "draw", "count": count})

	room, err := s.mutableRoom(ctx, roomID, logCtx)
	if room == nil {
		return nil, err
	}

	ids, err := s.catalog.ListActiveCardIDs(ctx, room.DeckID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list active cards")
		return nil, err
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	if len(ids) > count {
		ids = ids[:count]
	}

	if err := s.appendDraw(ctx, roomID, ids); err != nil {
		logCtx.WithError(err).Error("Failed to append draw event")
		return nil, err
	}

	flips := make(domain.FlipMap, len(ids))
	for _, id := range ids {
		flips[id] = false
	}
	if err := s.flipRepo.Set(ctx, roomID, flips); err != nil {
		logCtx.WithError(err).Error("Failed to reset flip cache after draw")
		return nil, err
	}

	state, err := s.projector.Project(ctx, roomID)
	if err != nil {
		return nil, err
	}
	logCtx.WithField("drawn", len(state.Cards)).Info("Draw applied")
	return &Outcome{State: state}, nil
}

// reset is recorded as a draw event with an empty drawn set, keeping the
// "latest draw defines the table" invariant intact.
func (s *SessionService) reset(ctx context.Context, roomID uuid.UUID) (*Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "action": "reset"})

	room, err := s.mutableRoom(ctx, roomID, logCtx)
	if room == nil {
		return nil, err
	}

	if err := s.appendDraw(ctx, roomID, []string{}); err != nil {
		logCtx.WithError(err).Error("Failed to append reset event")
		return nil, err
	}
	if err := s.flipRepo.Clear(ctx, roomID); err != nil {
		logCtx.WithError(err).Error("Failed to clear flip cache")
		return nil, err
	}

	state, err := s.projector.Project(ctx, roomID)
	if err != nil {
		return nil, err
	}
	logCtx.Info("Reset applied")
	return &Outcome{State: state}, nil
}

// flip validates the card against the drawn set recomputed from the event log
// right now, not against anything cached at connect time, then updates just
// that entry in the cache.
func (s *SessionService) flip(ctx context.Context, roomID uuid.UUID, cardID string, flipped bool) (*Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "action": "flip", "card_id": cardID})

	room, err := s.mutableRoom(ctx, roomID, logCtx)
	if room == nil {
		return nil, err
	}

	drawnIDs, err := s.currentDrawnIDs(ctx, roomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load current drawn set")
		return nil, err
	}
	if !contains(drawnIDs, cardID) {
		logCtx.Debug("Dropping flip for card outside the drawn set")
		return nil, nil
	}

	// A failed read must abort the flip: writing from an empty map would
	// clear every other card's orientation.
	flips, err := s.flipRepo.Get(ctx, roomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to read flip cache")
		return nil, err
	}
	flips[cardID] = flipped
	if err := s.flipRepo.Set(ctx, roomID, flips); err != nil {
		logCtx.WithError(err).Error("Failed to store flip")
		return nil, err
	}

	logCtx.WithField("flipped", flipped).Debug("Flip applied")
	return &Outcome{Flip: &domain.FlipUpdate{CardID: cardID, Flipped: flipped}}, nil
}

// mutableRoom loads the room for a state-mutating action. It returns a nil
// room both on hard failures (err set) and when the room is inactive, which
// drops the action silently like any other ignored input.
func (s *SessionService) mutableRoom(ctx context.Context, roomID uuid.UUID, logCtx *logrus.Entry) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Room not found for action")
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room")
		return nil, err
	}
	if !room.IsActive {
		logCtx.Debug("Dropping action on inactive room")
		return nil, nil
	}
	return room, nil
}

func (s *SessionService) appendDraw(ctx context.Context, roomID uuid.UUID, drawnIDs []string) error {
	event := &domain.Event{
		RoomID: roomID,
		Kind:   domain.EventDraw,
	}
	if err := event.SetDrawPayload(domain.DrawPayload{DrawnIDs: drawnIDs}); err != nil {
		return err
	}
	return s.eventRepo.Append(ctx, event)
}

func (s *SessionService) currentDrawnIDs(ctx context.Context, roomID uuid.UUID) ([]string, error) {
	latest, err := s.eventRepo.LatestByKind(ctx, roomID, domain.EventDraw)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	payload, err := latest.ParseDrawPayload()
	if err != nil {
		return nil, err
	}
	return payload.DrawnIDs, nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
