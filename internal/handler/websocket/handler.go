package websocket

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/hub"
	"github.com/nastiaetstesha/metadeck/internal/service"
)

// WebSocketHandler upgrades session-room connections and hands clients to the
// hub.
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	roomService *service.RoomService
}

func NewWebSocketHandler(h *hub.Hub, roomService *service.RoomService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if roomService == nil {
		panic("RoomService cannot be nil for WebSocketHandler")
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict origins once the frontend host is fixed.
			return true
		},
	}
	return &WebSocketHandler{
		upgrader:    upgrader,
		hub:         h,
		roomService: roomService,
	}
}

// HandleConnection serves GET /ws/s/:roomId. An unresolvable room rejects the
// connection before the upgrade; after the upgrade the client only ever
// receives protocol messages, never errors.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		logrus.WithError(err).Warnf("WS Handler: Invalid room id format: %s", c.Param("roomId"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id format"})
		return
	}
	logCtx := logrus.WithField("room_id", roomID)

	if _, err := h.roomService.FindRoomByID(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			logCtx.Warn("WS Handler: Room not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			logCtx.WithError(err).Error("WS Handler: Error resolving room")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate room"})
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade writes its own HTTP error response.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded")

	client := hub.NewClient(h.hub, conn, roomID)
	registerMsg := hub.HubMessage{
		Type:   "register",
		RoomID: roomID,
		Client: client,
	}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS Handler: Hub queue full, closing connection")
		client.CloseConn()
		return
	}

	client.Run()
}
