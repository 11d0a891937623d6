package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one websocket connection attached to a room's broadcast group.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uuid.UUID
	send   chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		roomID: roomID,
		send:   make(chan []byte, 256),
	}
}

func (c *Client) RoomID() uuid.UUID { return c.roomID }

func (c *Client) CloseConn() { c.conn.Close() }

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump pumps inbound frames into the hub's channel. It runs in its own
// goroutine and unregisters the client on exit, so a disconnect never affects
// the rest of the room.
func (c *Client) ReadPump() {
	defer func() {
		unregisterMsg := HubMessage{Type: "unregister", RoomID: c.roomID, Client: c}
		select {
		case c.hub.messageChan <- unregisterMsg:
		case <-time.After(1 * time.Second):
			logrus.WithField("room_id", c.roomID).Warn("Timeout sending unregister message to hub channel")
		}
		c.conn.Close()
		logrus.WithField("room_id", c.roomID).Debug("readPump exited, client unregistered")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithField("room_id", c.roomID)
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		actionMsg := HubMessage{
			Type:    "action",
			RoomID:  c.roomID,
			Client:  c,
			RawData: message,
		}
		select {
		case c.hub.messageChan <- actionMsg:
		default:
			logrus.WithField("room_id", c.roomID).Warn("Hub message channel full, dropping client message")
		}
	}
}

// WritePump pumps messages from the send channel to the connection and keeps
// it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithField("room_id", c.roomID).Debug("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel during unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithField("room_id", c.roomID).WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithField("room_id", c.roomID).WithError(err).Warn("Failed to send ping message")
				return
			}
		}
	}
}
