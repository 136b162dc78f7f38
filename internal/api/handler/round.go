package handler

import (
	"net/http"

	"github.com/mcoot/scoretracker/internal/api/request"
	"github.com/mcoot/scoretracker/internal/api/response"
	"github.com/mcoot/scoretracker/internal/services/session"
)

// RoundHandler handles round endpoints
type RoundHandler struct {
	controller *session.Controller
	decoder    *request.Decoder
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(controller *session.Controller, decoder *request.Decoder) *RoundHandler {
	return &RoundHandler{
		controller: controller,
		decoder:    decoder,
	}
}

// List handles GET /api/v1/rounds
func (h *RoundHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RoundsFromModel(h.controller.Rounds()))
}

// Get handles GET /api/v1/rounds/{id}
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := roundID(r)

	round, err := h.controller.GetRound(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundFromModel(*round))
}

// Submit handles POST /api/v1/rounds
func (h *RoundHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.RoundRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	round, err := h.controller.SubmitRound(r.Context(), req.RankingsToModel(), req.AdjustmentsToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoundFromModel(*round))
}

// RequestEdit handles POST /api/v1/rounds/{id}/edit
func (h *RoundHandler) RequestEdit(w http.ResponseWriter, r *http.Request) {
	id := roundID(r)

	round, err := h.controller.RequestEditRound(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundFromModel(*round))
}

// SaveEdit handles PUT /api/v1/rounds/{id}
func (h *RoundHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	id := roundID(r)

	var req request.RoundRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	round, err := h.controller.EditRound(r.Context(), id, req.RankingsToModel(), req.AdjustmentsToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundFromModel(*round))
}

// CancelEdit handles DELETE /api/v1/rounds/edit
func (h *RoundHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelEdit()
	response.NoContent(w)
}
