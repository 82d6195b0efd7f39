package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/btcguesser/internal/api/request"
	"github.com/mcoot/btcguesser/internal/api/response"
	"github.com/mcoot/btcguesser/internal/model"
	"github.com/mcoot/btcguesser/internal/services/guess"
)

// maxBodyBytes caps request bodies; a guess is a few dozen bytes
const maxBodyBytes = 4 << 10

// GuessHandler handles guess submission and status endpoints
type GuessHandler struct {
	controller *guess.Controller
}

// NewGuessHandler creates a new guess handler
func NewGuessHandler(controller *guess.Controller) *GuessHandler {
	return &GuessHandler{
		controller: controller,
	}
}

// Submit handles POST /api/v1/guess
func (h *GuessHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitGuessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	// Records are keyed by the trimmed id, so that is what gets echoed back
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}
	direction, err := model.ParseDirection(req.Guess)
	if err != nil {
		WriteError(w, NewInvalidRequestError("guess must be 'up' or 'down'"))
		return
	}

	active, err := h.controller.SubmitGuess(r.Context(), model.PlayerID(playerID), direction)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SubmitGuessResponse{
		Message:     response.SubmitGuessMessage,
		PlayerID:    playerID,
		ActiveGuess: response.ActiveGuessFromModel(active),
	})
}

// Status handles GET /api/v1/players/{player_id}/status
func (h *GuessHandler) Status(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["player_id"]

	status, err := h.controller.GetStatus(r.Context(), model.PlayerID(playerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatusFromModel(status))
}
