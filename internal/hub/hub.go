package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/service"
)

// WebSocket timing shared by hub and client.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// HubMessage is the unit passed over the hub's internal channel.
type HubMessage struct {
	Type    string // "register", "unregister", "action"
	RoomID  uuid.UUID
	Client  *Client
	RawData []byte // raw websocket payload, only for "action"
}

// Hub maintains the per-room client sets and coordinates message handling.
// Rooms are fully independent: the only shared mutable state is the rooms map
// itself, guarded by roomsMu and never held across an I/O call.
type Hub struct {
	messageChan chan HubMessage

	// map[roomID]set of clients
	rooms   map[uuid.UUID]map[*Client]bool
	roomsMu sync.RWMutex

	sessionService *service.SessionService
	projector      service.StateProjector
}

func NewHub(sessionService *service.SessionService, projector service.StateProjector) *Hub {
	if sessionService == nil {
		panic("SessionService cannot be nil for Hub")
	}
	if projector == nil {
		panic("StateProjector cannot be nil for Hub")
	}
	return &Hub{
		messageChan:    make(chan HubMessage, 512),
		rooms:          make(map[uuid.UUID]map[*Client]bool),
		sessionService: sessionService,
		projector:      projector,
	}
}

// Run is the hub's main loop. It should run in its own goroutine and exits
// when the message channel is closed.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "action":
			// Actions block on storage; keep the hub loop free.
			go h.handleClientAction(msg)
		default:
			log.Warnf("Received unknown hub message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down")
}

// QueueMessage puts a message on the hub's queue without blocking. Returns
// false when the queue is full and the message was dropped.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"room_id":      msg.RoomID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}

// Close stops the hub loop. Pending client pumps shut down via their own
// connection teardown.
func (h *Hub) Close() {
	close(h.messageChan)
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "operation": "register"})

	h.roomsMu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.roomsMu.Unlock()
	logCtx.Info("Client registered to hub")

	// The joiner catches up without sending anything: unicast the current
	// projection to them alone. The projection runs off the hub loop, so it
	// races concurrent action broadcasts and the joiner may briefly see them
	// out of order; the next full-state broadcast converges everyone.
	go h.sendInitialState(client)
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "operation": "unregister"})

	h.roomsMu.Lock()
	if roomClients, ok := h.rooms[roomID]; ok {
		if _, exists := roomClients[client]; exists {
			delete(roomClients, client)
			close(client.send)
			if len(roomClients) == 0 {
				delete(h.rooms, roomID)
				logCtx.Debug("Room empty, removed from hub")
			}
		}
	}
	h.roomsMu.Unlock()
	logCtx.Info("Client unregistered from hub")
}

func (h *Hub) sendInitialState(client *Client) {
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   client.RoomID(),
		"operation": "sendInitialState",
	})

	// Background context: the projection must not be cancelled by the
	// upgrade request going out of scope.
	state, err := h.projector.Project(context.Background(), client.RoomID())
	if err != nil {
		logCtx.WithError(err).Error("Failed to project initial state")
		return
	}
	payload, err := encodeState(state)
	if err != nil {
		logCtx.WithError(err).Error("Failed to encode initial state")
		return
	}

	select {
	case client.send <- payload:
		logCtx.Debug("Initial state sent to client channel")
	default:
		logCtx.Warn("Client send channel full, initial state dropped")
	}
}

func (h *Hub) handleClientAction(msg HubMessage) {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   msg.RoomID,
		"operation": "handleClientAction",
	})

	outcome, err := h.sessionService.HandleAction(context.Background(), msg.RoomID, msg.RawData)
	if err != nil {
		// Participants never see raw errors; a failed action just produces
		// no visible change.
		logCtx.WithError(err).Error("Error processing action")
		return
	}
	if outcome == nil {
		logCtx.Debug("Action dropped, nothing to broadcast")
		return
	}

	var payload []byte
	switch {
	case outcome.State != nil:
		payload, err = encodeState(outcome.State)
	case outcome.Flip != nil:
		payload, err = encodeFlip(outcome.Flip)
	default:
		return
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to encode broadcast payload")
		return
	}

	// Full-state and flip broadcasts both include the acting client: every
	// participant sees the same authoritative data.
	h.broadcast(msg.RoomID, payload)
}

// broadcast sends the message to every client in the room.
func (h *Hub) broadcast(roomID uuid.UUID, message []byte) {
	h.roomsMu.RLock()
	roomClients := h.rooms[roomID]
	recipients := make([]*Client, 0, len(roomClients))
	for client := range roomClients {
		recipients = append(recipients, client)
	}
	h.roomsMu.RUnlock()

	if len(recipients) == 0 {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":         roomID,
		"message_size":    len(message),
		"recipient_count": len(recipients),
	})
	logCtx.Debug("Broadcasting message to room")

	for _, client := range recipients {
		select {
		case client.send <- message:
		default:
			// A slow client must not stall the room; its pump or the ping
			// cycle will take the connection down.
			logCtx.Warn("Client send channel full during broadcast, skipping client")
		}
	}
}

// stateMessage and flipMessage are the two outbound wire envelopes.
type stateMessage struct {
	Type  string             `json:"type"`
	Mode  domain.SessionMode `json:"mode"`
	Cards []domain.CardView  `json:"cards"`
	Flips domain.FlipMap     `json:"flips"`
}

type flipMessage struct {
	Type    string `json:"type"`
	CardID  string `json:"card_id"`
	Flipped bool   `json:"flipped"`
}

func encodeState(state *domain.RoomState) ([]byte, error) {
	cards := state.Cards
	if cards == nil {
		cards = []domain.CardView{}
	}
	flips := state.Flips
	if flips == nil {
		flips = domain.FlipMap{}
	}
	return json.Marshal(stateMessage{
		Type:  "state",
		Mode:  state.Mode,
		Cards: cards,
		Flips: flips,
	})
}

func encodeFlip(update *domain.FlipUpdate) ([]byte, error) {
	return json.Marshal(flipMessage{
		Type:    "flip",
		CardID:  update.CardID,
		Flipped: update.Flipped,
	})
}
