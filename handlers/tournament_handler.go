package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/swiss-tournament/services"
)

type TournamentHandler struct {
	service services.TournamentService
	responder
}

func NewTournamentHandler(service services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{
		service:   service,
		responder: responder{logger: logger},
	}
}

type registerPlayerRequest struct {
	Name string `json:"name"`
}

func (h *TournamentHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var input registerPlayerRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		h.mapServiceErrorToHTTP(w, r, fmt.Errorf("%w: name is required", services.ErrValidationFailed))
		return
	}

	player, err := h.service.RegisterPlayer(r.Context(), input.Name)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"player": player})
}

func (h *TournamentHandler) CountPlayers(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountPlayers(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"count": count})
}

func (h *TournamentHandler) ClearPlayers(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearPlayers(r.Context()); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Standings(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"standings": standings})
}

type recordMatchRequest struct {
	WinnerID *int `json:"winner_id"`
	LoserID  *int `json:"loser_id"`
}

func (h *TournamentHandler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var input recordMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID == nil || input.LoserID == nil {
		h.mapServiceErrorToHTTP(w, r, fmt.Errorf("%w: winner_id and loser_id are required", services.ErrValidationFailed))
		return
	}

	match, err := h.service.RecordMatch(r.Context(), *input.WinnerID, *input.LoserID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"match": match})
}

func (h *TournamentHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.ListMatches(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *TournamentHandler) ClearMatches(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearMatches(r.Context()); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) SwissPairings(w http.ResponseWriter, r *http.Request) {
	pairings, err := h.service.SwissPairings(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"pairings": pairings})
}

func (h *TournamentHandler) ArchiveRound(w http.ResponseWriter, r *http.Request) {
	archive, err := h.service.ArchiveRound(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"archive": archive})
}

func (h *TournamentHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, jsonResponse{"status": "ok"})
}
