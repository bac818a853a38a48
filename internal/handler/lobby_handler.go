package handler

import (
	"net/http"
	"strconv"
	"strings"

	"edugame/backend/internal/activity"
	"edugame/backend/internal/auth"
	"edugame/backend/internal/hub"
	"edugame/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// region --- DTOs ---

type LobbyInput struct {
	Title           string `json:"title" binding:"required,max=255" example:"Fractions warm-up"`
	GameKind        string `json:"gameKind" binding:"required,max=64" example:"true_false"`
	MaxParticipants int    `json:"maxParticipants" binding:"omitempty,min=1,max=500" example:"30"`
}

type JoinByCodeInput struct {
	Code string `json:"code" binding:"required" example:"K7QX2M"`
}

type LobbyStatusInput struct {
	Status models.LobbyStatus `json:"status" binding:"required" example:"completed"`
}

type LobbyResponse struct {
	models.Lobby
	ParticipantCount int64 `json:"participantCount"`
	ReadyCount       int64 `json:"readyCount"`
}

// endregion

// CreateLobby godoc
// @Summary      Create a new lobby
// @Description  Creates a new game lobby owned by the calling teacher and assigns a join code.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LobbyInput true "Lobby Info"
// @Success      201  {object}  models.Lobby
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Teacher access required"
// @Router       /lobbies [post]
func (h *Handler) CreateLobby(c *gin.Context) {
	var input LobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxParticipants := input.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = h.MaxParticipants
	}

	lobby := models.Lobby{
		OwnerID:         auth.UserID(c),
		Title:           input.Title,
		GameKind:        input.GameKind,
		Status:          models.LobbyStatusActive,
		MaxParticipants: maxParticipants,
	}
	if err := h.Lobbies.Create(c.Request.Context(), &lobby); err != nil {
		h.storeError(c, err, "Failed to create lobby")
		return
	}

	c.JSON(http.StatusCreated, lobby)
}

// ListMyLobbies godoc
// @Summary      List the caller's lobbies
// @Description  Gets a paginated list of lobbies owned by the calling teacher, newest first.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        page    query int false "Page number" default(1)
// @Param        limit   query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[models.Lobby]
// @Router       /lobbies [get]
func (h *Handler) ListMyLobbies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	lobbies, total, err := h.Lobbies.ListByOwner(c.Request.Context(), auth.UserID(c), page, limit)
	if err != nil {
		h.storeError(c, err, "Failed to fetch lobbies")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(lobbies, total, page, limit))
}

// GetLobbyByID godoc
// @Summary      Get a lobby by ID
// @Description  Gets a lobby with participant counts. Only the owner and participants may view it.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {object} LobbyResponse
// @Failure      403 {object} ErrorResponse "Not a member of this lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id} [get]
func (h *Handler) GetLobbyByID(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !h.requireMemberOrOwner(c, lobby) {
		return
	}

	total, ready, err := h.Participants.Counts(c.Request.Context(), lobby.ID)
	if err != nil {
		h.storeError(c, err, "Failed to count participants")
		return
	}

	c.JSON(http.StatusOK, LobbyResponse{Lobby: *lobby, ParticipantCount: total, ReadyCount: ready})
}

// JoinLobby godoc
// @Summary      Join a lobby
// @Description  Joins a lobby by ID. Joining a lobby the caller is already in returns the existing membership.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {object} models.Participant
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "Lobby is full or completed"
// @Router       /lobbies/{id}/join [post]
func (h *Handler) JoinLobby(c *gin.Context) {
	lobbyID, ok := parseID(c, "id", "lobby")
	if !ok {
		return
	}
	h.join(c, lobbyID)
}

// JoinLobbyByCode godoc
// @Summary      Join a lobby by code
// @Description  Joins the lobby whose join code matches. Codes are case-insensitive.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body JoinByCodeInput true "Join code"
// @Success      200 {object} models.Participant
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "Lobby is full or completed"
// @Router       /lobbies/join [post]
func (h *Handler) JoinLobbyByCode(c *gin.Context) {
	var input JoinByCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	lobby, err := h.Lobbies.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.storeError(c, err, "Failed to fetch lobby")
		return
	}
	h.join(c, lobby.ID)
}

func (h *Handler) join(c *gin.Context, lobbyID uint) {
	participant, err := h.Participants.Join(c.Request.Context(), lobbyID, auth.UserID(c))
	if err != nil {
		h.storeError(c, err, "Failed to join lobby")
		return
	}
	c.JSON(http.StatusOK, participant)
}

// UpdateLobbyStatus godoc
// @Summary      Change a lobby's status (Owner only)
// @Description  Marks a lobby active or completed.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Lobby ID"
// @Param        input body      LobbyStatusInput true  "New status"
// @Success      200   {object}  models.Lobby
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Only the owner can change the status"
// @Failure      404   {object}  ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/status [patch]
func (h *Handler) UpdateLobbyStatus(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !requireOwner(c, lobby, "change the status") {
		return
	}

	var input LobbyStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'active' or 'completed'"})
		return
	}

	updated, err := h.Lobbies.UpdateStatus(c.Request.Context(), lobby.ID, input.Status)
	if err != nil {
		h.storeError(c, err, "Failed to update lobby")
		return
	}

	h.publish(c.Request.Context(), activity.NewRecord(activity.TypeLobbyStatusChanged, lobby.ID, auth.UserID(c),
		map[string]any{"status": updated.Status}))

	c.JSON(http.StatusOK, updated)
}

// DeleteLobby godoc
// @Summary      Delete a lobby (Owner only)
// @Description  Deletes the lobby together with its participants and scores.
// @Tags         lobbies
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      204
// @Failure      403 {object} ErrorResponse "Only the owner can delete the lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id} [delete]
func (h *Handler) DeleteLobby(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !requireOwner(c, lobby, "delete the lobby") {
		return
	}

	if err := h.Lobbies.Delete(c.Request.Context(), lobby.ID); err != nil {
		h.storeError(c, err, "Failed to delete lobby")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListParticipants godoc
// @Summary      List a lobby's participants
// @Description  Lists participants in join order with their ready flags.
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {array}  models.Participant
// @Failure      403 {object} ErrorResponse "Not a member of this lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/participants [get]
func (h *Handler) ListParticipants(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !h.requireMemberOrOwner(c, lobby) {
		return
	}

	participants, err := h.Participants.List(c.Request.Context(), lobby.ID)
	if err != nil {
		h.storeError(c, err, "Failed to fetch participants")
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}

// RemoveParticipant godoc
// @Summary      Remove a participant (Owner only)
// @Description  Removes a participant from the lobby and broadcasts participant_removed with the new all-ready state. Their scores are kept.
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id             path int true "Lobby ID"
// @Param        participantID  path int true "Participant ID"
// @Success      200 {object} map[string]string "{"message": "Participant removed"}"
// @Failure      403 {object} ErrorResponse "Only the owner can remove participants"
// @Failure      404 {object} ErrorResponse "Lobby or participant not found"
// @Router       /lobbies/{id}/participants/{participantID} [delete]
func (h *Handler) RemoveParticipant(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !requireOwner(c, lobby, "remove participants") {
		return
	}
	participantID, ok := parseID(c, "participantID", "participant")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	removed, err := h.Participants.Remove(ctx, lobby.ID, participantID)
	if err != nil {
		h.storeError(c, err, "Failed to remove participant")
		return
	}

	// The remaining members may all be ready now.
	allReady, err := h.Participants.AllReady(ctx, lobby.ID)
	if err != nil {
		h.storeError(c, err, "Failed to check ready status")
		return
	}
	h.Hub.Broadcast(lobby.ID, hub.ParticipantRemoved{
		LobbyID:       lobby.ID,
		ParticipantID: removed.ID,
		UserID:        removed.UserID,
		AllReady:      allReady,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Participant removed"})
}

// GetLobbyQRCode godoc
// @Summary      Join code as a QR image (Owner only)
// @Description  Renders the lobby's join code as a PNG QR code for projecting in class.
// @Tags         lobbies
// @Produce      png
// @Security     BearerAuth
// @Param        id   path  int true  "Lobby ID"
// @Param        size query int false "Image size in pixels" default(256)
// @Success      200
// @Failure      403 {object} ErrorResponse "Only the owner can fetch the QR code"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/qrcode [get]
func (h *Handler) GetLobbyQRCode(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok || !requireOwner(c, lobby, "fetch the QR code") {
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 64 and 1024"})
		return
	}

	png, err := qrcode.Encode(lobby.JoinCode, qrcode.Medium, size)
	if err != nil {
		h.storeError(c, err, "Failed to render QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
