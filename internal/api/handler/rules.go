package handler

import (
	"net/http"

	"github.com/mcoot/scoretracker/internal/api/request"
	"github.com/mcoot/scoretracker/internal/api/response"
	"github.com/mcoot/scoretracker/internal/services/session"
)

// RulesHandler handles scoring rule endpoints
type RulesHandler struct {
	controller *session.Controller
	decoder    *request.Decoder
}

// NewRulesHandler creates a new rules handler
func NewRulesHandler(controller *session.Controller, decoder *request.Decoder) *RulesHandler {
	return &RulesHandler{
		controller: controller,
		decoder:    decoder,
	}
}

// Get handles GET /api/v1/rules
func (h *RulesHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RulesFromModel(h.controller.Rules()))
}

// Defaults handles GET /api/v1/rules/defaults
func (h *RulesHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RulesFromModel(h.controller.DefaultRules()))
}

// Save handles PUT /api/v1/rules
func (h *RulesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveRulesRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.controller.SaveRuleSet(r.Context(), req.ToModel()); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(h.controller.Snapshot()))
}
