package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"edugame/backend/internal/activity"
	"edugame/backend/internal/auth"
	"edugame/backend/internal/database"
	"edugame/backend/internal/hub"
	"edugame/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// Handler carries the stores and realtime plumbing the REST endpoints share.
type Handler struct {
	Lobbies      *database.LobbyStore
	Participants *database.ParticipantStore
	Scores       *database.ScoreStore
	Hub          *hub.Hub
	Activity     activity.Publisher
	Log          logrus.FieldLogger

	LeaderboardLimit int
	MaxParticipants  int
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return 0, false
	}
	return uint(id), true
}

// parseLimit reads ?limit=, falling back to def when absent.
func parseLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

// storeError maps store errors onto HTTP responses.
func (h *Handler) storeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, database.ErrLobbyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
	case errors.Is(err, database.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
	case errors.Is(err, database.ErrScoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Score not found"})
	case errors.Is(err, database.ErrLobbyFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Lobby is full"})
	case errors.Is(err, database.ErrLobbyClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Lobby is already completed"})
	default:
		_ = c.Error(err)
		h.Log.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// loadLobby fetches the lobby named by the :id parameter or writes the error response.
func (h *Handler) loadLobby(c *gin.Context) (*models.Lobby, bool) {
	lobbyID, ok := parseID(c, "id", "lobby")
	if !ok {
		return nil, false
	}
	lobby, err := h.Lobbies.Get(c.Request.Context(), lobbyID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch lobby")
		return nil, false
	}
	return lobby, true
}

// requireOwner only lets the teacher who created the lobby through.
func requireOwner(c *gin.Context, lobby *models.Lobby, action string) bool {
	if lobby.OwnerID != auth.UserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the lobby owner can " + action})
		return false
	}
	return true
}

// requireMemberOrOwner lets the owner and the lobby's participants through.
func (h *Handler) requireMemberOrOwner(c *gin.Context, lobby *models.Lobby) bool {
	userID := auth.UserID(c)
	if lobby.OwnerID == userID {
		return true
	}
	member, err := h.Participants.IsMember(c.Request.Context(), lobby.ID, userID)
	if err != nil {
		h.storeError(c, err, "Failed to check membership")
		return false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this lobby"})
		return false
	}
	return true
}

// CanSubscribe lets the lobby owner and its participants follow the lobby's
// realtime channel. Anonymous callers and unknown lobbies are refused.
func (h *Handler) CanSubscribe(ctx context.Context, lobbyID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	lobby, err := h.Lobbies.Get(ctx, lobbyID)
	if errors.Is(err, database.ErrLobbyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if lobby.OwnerID == userID {
		return true, nil
	}
	return h.Participants.IsMember(ctx, lobbyID, userID)
}

// publish records activity without failing the request.
func (h *Handler) publish(ctx context.Context, record activity.Record) {
	if h.Activity == nil {
		return
	}
	if err := h.Activity.Publish(ctx, record); err != nil {
		h.Log.WithError(err).WithField("type", record.Type).Warn("Failed to publish activity")
	}
}
