package api

import (
	"net/http"

	"hostelhub/internal/domain"
	"hostelhub/internal/realtime"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	gateway *realtime.Gateway,
	authService service.AuthService,
	complaintService service.ComplaintService,
	noticeService service.NoticeService,
	roomService service.RoomService,
	feedbackService service.FeedbackService,
) {

	authHandler := NewAuthHandler(authService)
	complaintHandler := NewComplaintHandler(complaintService)
	noticeHandler := NewNoticeHandler(noticeService)
	roomHandler := NewRoomHandler(roomService)
	feedbackHandler := NewFeedbackHandler(feedbackService)
	wsHandler := NewWSHandler(gateway)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// The event channel. Identity is bound per-connection via the
	// register event, not the HTTP handshake.
	router.GET("/ws", wsHandler.Serve)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Room lookup is public, matching the original directory service.
		api.GET("/rooms/search", roomHandler.Search)

		protected := api.Group("")
		protected.Use(authMiddleware)
		{
			protected.GET("/me", authHandler.Me)

			// --- Complaint Routes ---
			protected.POST("/complaints", complaintHandler.Submit)
			protected.GET("/complaints", complaintHandler.List)
			protected.GET("/complaints/stats", complaintHandler.Stats)
			protected.PUT("/complaints/:id", RoleMiddleware(domain.RoleAdmin), complaintHandler.UpdateStatus)

			// --- Notice Routes ---
			protected.GET("/notices", noticeHandler.List)
			protected.POST("/notices", RoleMiddleware(domain.RoleAdmin), noticeHandler.Create)
			protected.DELETE("/notices/:id", RoleMiddleware(domain.RoleAdmin), noticeHandler.Delete)

			// --- Mess Feedback Routes ---
			protected.POST("/mess-feedback", feedbackHandler.Submit)
			protected.GET("/mess-feedback/live", feedbackHandler.Live)
			protected.GET("/mess-feedback/stats", feedbackHandler.Stats)
		}
	}
}
