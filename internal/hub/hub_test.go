package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository/mocks"
	"github.com/nastiaetstesha/metadeck/internal/service"
)

// stubProjector returns a fixed snapshot so hub tests control what both the
// join unicast and post-draw broadcasts carry.
type stubProjector struct {
	state *domain.RoomState
}

func (s *stubProjector) Project(ctx context.Context, roomID uuid.UUID) (*domain.RoomState, error) {
	return s.state, nil
}

type hubFixture struct {
	hub       *Hub
	roomRepo  *mocks.RoomRepository
	eventRepo *mocks.EventRepository
	catalog   *mocks.CardCatalog
	flipRepo  *mocks.FlipStateRepository
}

func newHubFixture(state *domain.RoomState) *hubFixture {
	f := &hubFixture{
		roomRepo:  new(mocks.RoomRepository),
		eventRepo: new(mocks.EventRepository),
		catalog:   new(mocks.CardCatalog),
		flipRepo:  new(mocks.FlipStateRepository),
	}
	projector := &stubProjector{state: state}
	sessionService := service.NewSessionService(f.roomRepo, f.eventRepo, f.catalog, f.flipRepo, projector)
	f.hub = NewHub(sessionService, projector)
	return f
}

// receive reads the next payload queued for the client, failing the test if
// none arrives.
func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case payload := <-client.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message on the client send channel")
		return nil
	}
}

func decode(t *testing.T, payload []byte) map[string]interface{} {
	t.Helper()
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func hubDrawEvent(t *testing.T, roomID uuid.UUID, ids []string) *domain.Event {
	t.Helper()
	event := &domain.Event{RoomID: roomID, Kind: domain.EventDraw}
	require.NoError(t, event.SetDrawPayload(domain.DrawPayload{DrawnIDs: ids}))
	return event
}

func TestHub_JoinUnicastsCurrentState(t *testing.T) {
	f := newHubFixture(&domain.RoomState{
		Mode:  domain.ModePickOneOfSix,
		Cards: []domain.CardView{{ID: "4", FrontURL: "4.png", BackURL: "back.png"}},
		Flips: domain.FlipMap{"4": true},
	})
	roomID := uuid.New()
	joiner := NewClient(f.hub, nil, roomID)

	f.hub.registerClient(joiner)

	// The snapshot arrives without the joiner sending anything.
	msg := decode(t, receive(t, joiner))
	assert.Equal(t, "state", msg["type"])
	assert.Equal(t, "pick_one_of_six", msg["mode"])
	cards, ok := msg["cards"].([]interface{})
	require.True(t, ok)
	require.Len(t, cards, 1)
	card := cards[0].(map[string]interface{})
	assert.Equal(t, "4", card["id"])
	assert.Equal(t, "4.png", card["front_url"])
	assert.Equal(t, "back.png", card["back_url"])
	assert.Equal(t, map[string]interface{}{"4": true}, msg["flips"])
}

func TestHub_FlipBroadcastsDeltaToAllMembers(t *testing.T) {
	f := newHubFixture(&domain.RoomState{Mode: domain.ModeRandomOne})
	roomID := uuid.New()

	actor := NewClient(f.hub, nil, roomID)
	observer := NewClient(f.hub, nil, roomID)
	f.hub.registerClient(actor)
	f.hub.registerClient(observer)
	receive(t, actor) // drain the join snapshots
	receive(t, observer)

	f.roomRepo.On("FindByID", mock.Anything, roomID).
		Return(&domain.Room{ID: roomID, DeckID: 1, Mode: domain.ModeRandomOne, IsActive: true}, nil)
	f.eventRepo.On("LatestByKind", mock.Anything, roomID, domain.EventDraw).
		Return(hubDrawEvent(t, roomID, []string{"4"}), nil)
	f.flipRepo.On("Get", mock.Anything, roomID).Return(domain.FlipMap{"4": false}, nil)
	f.flipRepo.On("Set", mock.Anything, roomID, domain.FlipMap{"4": true}).Return(nil)

	f.hub.handleClientAction(HubMessage{
		Type:    "action",
		RoomID:  roomID,
		Client:  actor,
		RawData: []byte(`{"action":"flip","card_id":"4","flipped":true}`),
	})

	// Both members, the acting client included, get the same delta.
	for _, client := range []*Client{actor, observer} {
		msg := decode(t, receive(t, client))
		assert.Equal(t, "flip", msg["type"], "a flip fans out as a delta, never a snapshot")
		assert.Equal(t, "4", msg["card_id"])
		assert.Equal(t, true, msg["flipped"])
	}
}

func TestHub_DrawBroadcastsFullState(t *testing.T) {
	f := newHubFixture(&domain.RoomState{
		Mode:  domain.ModePickOneOfSix,
		Cards: []domain.CardView{{ID: "1", FrontURL: "1.png"}},
		Flips: domain.FlipMap{"1": false},
	})
	roomID := uuid.New()

	member := NewClient(f.hub, nil, roomID)
	f.hub.registerClient(member)
	receive(t, member)

	f.roomRepo.On("FindByID", mock.Anything, roomID).
		Return(&domain.Room{ID: roomID, DeckID: 1, Mode: domain.ModePickOneOfSix, IsActive: true}, nil)
	f.catalog.On("ListActiveCardIDs", mock.Anything, uint(1)).Return([]string{"1"}, nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.flipRepo.On("Set", mock.Anything, roomID, mock.Anything).Return(nil)

	f.hub.handleClientAction(HubMessage{
		Type:    "action",
		RoomID:  roomID,
		Client:  member,
		RawData: []byte(`{"action":"draw_one"}`),
	})

	msg := decode(t, receive(t, member))
	assert.Equal(t, "state", msg["type"])
	cards, ok := msg["cards"].([]interface{})
	require.True(t, ok)
	require.Len(t, cards, 1)
	assert.Equal(t, map[string]interface{}{"1": false}, msg["flips"])
}

func TestHub_DroppedActionBroadcastsNothing(t *testing.T) {
	f := newHubFixture(&domain.RoomState{Mode: domain.ModeRandomOne})
	roomID := uuid.New()

	member := NewClient(f.hub, nil, roomID)
	f.hub.registerClient(member)
	receive(t, member)

	f.hub.handleClientAction(HubMessage{
		Type:    "action",
		RoomID:  roomID,
		Client:  member,
		RawData: []byte(`{"action":"tarot_spread"}`),
	})

	select {
	case payload := <-member.send:
		t.Fatalf("unexpected broadcast for an ignored action: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEncodeState_NormalizesNilCollections(t *testing.T) {
	payload, err := encodeState(&domain.RoomState{Mode: domain.ModeRandomOne})

	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"state","mode":"random_one","cards":[],"flips":{}}`, string(payload))
}

func TestEncodeFlip_WireShape(t *testing.T) {
	payload, err := encodeFlip(&domain.FlipUpdate{CardID: "7", Flipped: true})

	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"flip","card_id":"7","flipped":true}`, string(payload))
}
