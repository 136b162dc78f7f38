package handler

import (
	"net/http"

	"github.com/mcoot/scoretracker/internal/api/request"
	"github.com/mcoot/scoretracker/internal/api/response"
	"github.com/mcoot/scoretracker/internal/services/session"
)

// PlayerHandler handles roster endpoints
type PlayerHandler struct {
	controller *session.Controller
	decoder    *request.Decoder
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controller *session.Controller, decoder *request.Decoder) *PlayerHandler {
	return &PlayerHandler{
		controller: controller,
		decoder:    decoder,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.PlayersFromModel(h.controller.Players()))
}

// Add handles POST /api/v1/players
func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.controller.AddPlayer(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(*player))
}

// Rename handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := playerID(r)

	var req request.RenamePlayerRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.controller.RenamePlayer(r.Context(), id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(*player))
}

// Remove handles DELETE /api/v1/players/{id}
func (h *PlayerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := playerID(r)

	if err := h.controller.RemovePlayer(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
