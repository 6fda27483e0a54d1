package api

import (
	"errors"
	"net/http"

	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

// RoomHandler holds the room lookup service dependency.
type RoomHandler struct {
	roomService service.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// Search looks up a room by number, e.g. GET /api/rooms/search?roomNo=A101.
func (h *RoomHandler) Search(c *gin.Context) {
	roomNo := c.Query("roomNo")
	if roomNo == "" {
		abortWithError(c, http.StatusBadRequest, "roomNo query parameter is required")
		return
	}

	room, err := h.roomService.GetRoomInfo(roomNo)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "room": nil})
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to look up room")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "room": room})
}
