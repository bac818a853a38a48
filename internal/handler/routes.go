package handler

import (
	"edugame/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the REST API under /api/v1.
func (h *Handler) RegisterRoutes(router gin.IRouter, secret string) {
	apiV1 := router.Group("/api/v1")
	apiV1.Use(auth.AuthMiddleware(secret))
	{
		// Lobby routes
		lobbyRoutes := apiV1.Group("/lobbies")
		{
			lobbyRoutes.POST("", auth.TeacherMiddleware(), h.CreateLobby)
			lobbyRoutes.GET("", auth.TeacherMiddleware(), h.ListMyLobbies)
			lobbyRoutes.POST("/join", h.JoinLobbyByCode) // Must be before /:id
			lobbyRoutes.GET("/:id", h.GetLobbyByID)
			lobbyRoutes.DELETE("/:id", h.DeleteLobby)
			lobbyRoutes.PATCH("/:id/status", h.UpdateLobbyStatus)
			lobbyRoutes.GET("/:id/qrcode", h.GetLobbyQRCode)
			lobbyRoutes.POST("/:id/join", h.JoinLobby)

			// Ready protocol
			lobbyRoutes.POST("/:id/ready", h.SetReady)
			lobbyRoutes.GET("/:id/all-ready", h.GetAllReady)

			lobbyRoutes.GET("/:id/participants", h.ListParticipants)
			lobbyRoutes.DELETE("/:id/participants/:participantID", h.RemoveParticipant)
			lobbyRoutes.GET("/:id/scores", h.GetLobbyScores)
		}

		// Score routes
		scoreRoutes := apiV1.Group("/scores")
		{
			scoreRoutes.POST("", h.SubmitScore)
			scoreRoutes.DELETE("/:id", h.DeleteScore)
		}

		apiV1.GET("/leaderboard/:gameKind", h.GetLeaderboard)
	}
}
