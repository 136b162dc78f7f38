package handler

import (
	"net/http"

	"github.com/mcoot/scoretracker/internal/api/response"
	"github.com/mcoot/scoretracker/internal/services/session"
)

// SessionHandler handles session state, stage and destructive action endpoints
type SessionHandler struct {
	controller *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{
		controller: controller,
	}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SessionFromModel(h.controller.Snapshot()))
}

// Proceed handles POST /api/v1/session/proceed
func (h *SessionHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ProceedToRuleSetup(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.Get(w, r)
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *SessionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	response.JSON(w, http.StatusOK, response.Leaderboard{
		Standings: response.StandingsFromModel(snap.Standings),
		Winners:   response.PlayersFromModel(snap.Winners),
	})
}

// RequestReset handles POST /api/v1/reset
func (h *SessionHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.RequestReset(); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusAccepted, response.SessionFromModel(h.controller.Snapshot()))
}

// ConfirmReset handles POST /api/v1/reset/confirm
func (h *SessionHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	performed := h.controller.ConfirmReset(r.Context())
	h.writeConfirmation(w, performed)
}

// RequestClear handles POST /api/v1/clear
func (h *SessionHandler) RequestClear(w http.ResponseWriter, r *http.Request) {
	h.controller.RequestClear()
	response.JSON(w, http.StatusAccepted, response.SessionFromModel(h.controller.Snapshot()))
}

// ConfirmClear handles POST /api/v1/clear/confirm
func (h *SessionHandler) ConfirmClear(w http.ResponseWriter, r *http.Request) {
	performed := h.controller.ConfirmClear(r.Context())
	h.writeConfirmation(w, performed)
}

// CancelPending handles DELETE /api/v1/confirmation
func (h *SessionHandler) CancelPending(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelPendingAction()
	response.NoContent(w)
}

func (h *SessionHandler) writeConfirmation(w http.ResponseWriter, performed bool) {
	response.JSON(w, http.StatusOK, response.Confirmation{
		Performed: performed,
		Session:   response.SessionFromModel(h.controller.Snapshot()),
	})
}
