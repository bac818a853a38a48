package handler

import (
	"errors"
	"net/http"

	"edugame/backend/internal/activity"
	"edugame/backend/internal/auth"
	"edugame/backend/internal/database"
	"edugame/backend/internal/hub"
	"edugame/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type ReadyInput struct {
	IsReady *bool `json:"isReady" binding:"required" example:"true"`
}

type ReadyResponse struct {
	Participant models.Participant `json:"participant"`
	AllReady    bool               `json:"allReady"`
}

type AllReadyResponse struct {
	AllReady         bool  `json:"allReady"`
	ParticipantCount int64 `json:"participantCount"`
	ReadyCount       int64 `json:"readyCount"`
	IsFull           bool  `json:"isFull"`
}

// SetReady godoc
// @Summary      Toggle the caller's ready flag
// @Description  Sets the caller's ready flag and broadcasts ready_status_updated to every connection in the lobby.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int        true "Lobby ID"
// @Param        input body ReadyInput true "Ready flag"
// @Success      200 {object} ReadyResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Caller is not a participant"
// @Router       /lobbies/{id}/ready [post]
func (h *Handler) SetReady(c *gin.Context) {
	lobbyID, ok := parseID(c, "id", "lobby")
	if !ok {
		return
	}

	var input ReadyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)

	participant, err := h.Participants.SetReady(ctx, lobbyID, userID, *input.IsReady)
	if err != nil {
		if errors.Is(err, database.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "You are not a participant of this lobby"})
			return
		}
		h.storeError(c, err, "Failed to update ready status")
		return
	}

	allReady, err := h.Participants.AllReady(ctx, lobbyID)
	if err != nil {
		h.storeError(c, err, "Failed to check ready status")
		return
	}

	h.Hub.Broadcast(lobbyID, hub.ReadyStatusChanged{
		LobbyID:     lobbyID,
		Participant: *participant,
		AllReady:    allReady,
	})
	h.publish(ctx, activity.NewRecord(activity.TypeReadyChanged, lobbyID, userID,
		map[string]any{"isReady": participant.IsReady, "allReady": allReady}))

	c.JSON(http.StatusOK, ReadyResponse{Participant: *participant, AllReady: allReady})
}

// GetAllReady godoc
// @Summary      Lobby ready summary
// @Description  Reports whether every participant is ready. A lobby with no participants is never all-ready.
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {object} AllReadyResponse
// @Failure      403 {object} ErrorResponse "Not a member of this lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/all-ready [get]
func (h *Handler) GetAllReady(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !h.requireMemberOrOwner(c, lobby) {
		return
	}

	total, ready, err := h.Participants.Counts(c.Request.Context(), lobby.ID)
	if err != nil {
		h.storeError(c, err, "Failed to count participants")
		return
	}

	c.JSON(http.StatusOK, AllReadyResponse{
		AllReady:         total > 0 && ready == total,
		ParticipantCount: total,
		ReadyCount:       ready,
		IsFull:           total >= int64(lobby.MaxParticipants),
	})
}
