package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/service"
)

// RoomHandler wraps room creation and closing over plain HTTP. The returned
// room id is the address clients connect the websocket to.
type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

type createSessionRequest struct {
	DeckID uint   `json:"deck_id" binding:"required"`
	Mode   string `json:"mode" binding:"required"`
	Title  string `json:"title"`
}

type createSessionResponse struct {
	RoomID string `json:"room_id"`
}

// CreateSession creates a room bound to a deck and mode.
func (h *RoomHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateSession: Invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: deck_id and mode are required")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"deck_id": req.DeckID, "mode": req.Mode})

	room, err := h.roomService.Create(c.Request.Context(), req.DeckID, domain.SessionMode(req.Mode), req.Title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMode):
			ErrorResponse(c, http.StatusBadRequest, "Unsupported session mode")
		case errors.Is(err, service.ErrDeckNotFound):
			ErrorResponse(c, http.StatusNotFound, "Deck not found")
		default:
			logCtx.WithError(err).Error("Handler.CreateSession: Failed to create room")
			ErrorResponse(c, http.StatusInternalServerError, "Failed to create session")
		}
		return
	}

	logCtx.WithField("room_id", room.ID).Info("Handler.CreateSession: Session created")
	SuccessResponse(c, http.StatusOK, createSessionResponse{RoomID: room.ID.String()})
}

// CloseSession marks a room inactive; it stays readable but stops accepting
// mutating actions.
func (h *RoomHandler) CloseSession(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid room id")
		return
	}

	if err := h.roomService.Close(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Room not found")
			return
		}
		logrus.WithField("room_id", roomID).WithError(err).Error("Handler.CloseSession: Failed to close room")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to close session")
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Session closed"})
}
