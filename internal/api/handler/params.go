package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoretracker/internal/api/apierr"
	"github.com/mcoot/scoretracker/internal/model"
)

// WriteError writes err as an API error response
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// playerID reads the {id} path variable of a player route
func playerID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}

// roundID reads the {id} path variable of a round route
func roundID(r *http.Request) model.RoundID {
	return model.RoundID(mux.Vars(r)["id"])
}
