package handler

import (
	"errors"
	"net/http"

	"edugame/backend/internal/activity"
	"edugame/backend/internal/auth"
	"edugame/backend/internal/database"
	"edugame/backend/internal/models"
	"edugame/backend/internal/ranking"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type ScoreInput struct {
	LobbyID        uint     `json:"lobbyId" binding:"required" example:"3"`
	Score          *int     `json:"score" binding:"required" example:"850"`
	CompletionTime *float64 `json:"completionTime" binding:"omitempty,gte=0" example:"42.5"`
}

type ScoreResponse struct {
	Score    models.Score `json:"score"`
	Accepted bool         `json:"accepted"`
}

type LeaderboardResponse struct {
	Entries []ranking.Entry `json:"entries"`
}

// endregion

// SubmitScore godoc
// @Summary      Submit a score
// @Description  Records a score for the caller in a lobby they belong to. A score that does not beat the caller's current best is not stored; the existing best is returned instead.
// @Tags         scores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ScoreInput true "Score"
// @Success      201 {object} ScoreResponse "New best stored"
// @Success      200 {object} ScoreResponse "Existing best kept"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Not a member of this lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /scores [post]
func (h *Handler) SubmitScore(c *gin.Context) {
	var input ScoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)

	if _, err := h.Lobbies.Get(ctx, input.LobbyID); err != nil {
		h.storeError(c, err, "Failed to fetch lobby")
		return
	}
	member, err := h.Participants.IsMember(ctx, input.LobbyID, userID)
	if err != nil {
		h.storeError(c, err, "Failed to check membership")
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this lobby"})
		return
	}

	// Read-then-write: two concurrent better scores may both land. Ranking dedups.
	best, err := h.Scores.Best(ctx, input.LobbyID, userID)
	switch {
	case err == nil && best.Score >= *input.Score:
		c.JSON(http.StatusOK, ScoreResponse{Score: *best, Accepted: false})
		return
	case err != nil && !errors.Is(err, database.ErrScoreNotFound):
		h.storeError(c, err, "Failed to fetch best score")
		return
	}

	score, err := h.Scores.Submit(ctx, input.LobbyID, userID, *input.Score, input.CompletionTime)
	if err != nil {
		h.storeError(c, err, "Failed to save score")
		return
	}

	h.publish(ctx, activity.NewRecord(activity.TypeScoreSubmitted, input.LobbyID, userID,
		map[string]any{"scoreId": score.ID, "score": score.Score}))

	c.JSON(http.StatusCreated, ScoreResponse{Score: *score, Accepted: true})
}

// GetLobbyScores godoc
// @Summary      Lobby leaderboard
// @Description  Ranks the lobby's scores keeping each user's best. Without a limit every user is listed.
// @Tags         scores
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "Lobby ID"
// @Param        limit query int false "Maximum entries"
// @Success      200 {object} LeaderboardResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Not a member of this lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/scores [get]
func (h *Handler) GetLobbyScores(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !h.requireMemberOrOwner(c, lobby) {
		return
	}
	limit, ok := parseLimit(c, 0)
	if !ok {
		return
	}

	scores, err := h.Scores.ListByLobby(c.Request.Context(), lobby.ID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch scores")
		return
	}

	c.JSON(http.StatusOK, LeaderboardResponse{Entries: ranking.Rank(scores, limit)})
}

// GetLeaderboard godoc
// @Summary      Global leaderboard for a game kind
// @Description  Ranks every score from lobbies of the given game kind, one entry per user.
// @Tags         scores
// @Produce      json
// @Security     BearerAuth
// @Param        gameKind path  string true  "Game kind"
// @Param        limit    query int    false "Maximum entries" default(10)
// @Success      200 {object} LeaderboardResponse
// @Failure      400 {object} ErrorResponse
// @Router       /leaderboard/{gameKind} [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, ok := parseLimit(c, h.LeaderboardLimit)
	if !ok {
		return
	}

	scores, err := h.Scores.ListByGameKind(c.Request.Context(), c.Param("gameKind"))
	if err != nil {
		h.storeError(c, err, "Failed to fetch scores")
		return
	}

	c.JSON(http.StatusOK, LeaderboardResponse{Entries: ranking.Rank(scores, limit)})
}

// DeleteScore godoc
// @Summary      Delete a score (Owner only)
// @Description  Hard deletes one score row from a lobby the caller owns.
// @Tags         scores
// @Security     BearerAuth
// @Param        id path int true "Score ID"
// @Success      204
// @Failure      403 {object} ErrorResponse "Only the owner can delete scores"
// @Failure      404 {object} ErrorResponse "Score not found"
// @Router       /scores/{id} [delete]
func (h *Handler) DeleteScore(c *gin.Context) {
	scoreID, ok := parseID(c, "id", "score")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	score, err := h.Scores.Get(ctx, scoreID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch score")
		return
	}
	lobby, err := h.Lobbies.Get(ctx, score.LobbyID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch lobby")
		return
	}
	if !requireOwner(c, lobby, "delete scores") {
		return
	}

	if err := h.Scores.Delete(ctx, score.ID); err != nil {
		h.storeError(c, err, "Failed to delete score")
		return
	}
	c.Status(http.StatusNoContent)
}
