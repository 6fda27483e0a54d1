package api

import (
	"log"
	"net/http"

	"hostelhub/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades HTTP requests to websocket connections and hands them
// to the realtime gateway.
type WSHandler struct {
	gateway  *realtime.Gateway
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(gateway *realtime.Gateway) *WSHandler {
	return &WSHandler{
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser client connects from a different origin (the
			// React dev server), so the default same-origin check is off.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *WSHandler) Serve(c *gin.Context) {
	sock, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARN: websocket upgrade failed: %v", err)
		return
	}

	// HandleConnection blocks until the connection closes and then runs
	// the disconnect cascade.
	h.gateway.HandleConnection(sock)
}
