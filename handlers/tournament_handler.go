package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/footylab/prediction-engine/models"
	"github.com/footylab/prediction-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

type createTournamentRequest struct {
	TournamentID string `json:"tournament_id"`
}

type submitResultRequest struct {
	MatchID       string `json:"match_id"`
	ScoreA        *int   `json:"score_a"`
	ScoreB        *int   `json:"score_b"`
	PenaltyWinner string `json:"penalty_winner,omitempty"`
}

type advanceStageRequest struct {
	FromStage string `json:"from_stage"`
}

func (h *TournamentHandler) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.TournamentID == "" {
		badRequestResponse(w, r, errors.New("tournament_id is required"))
		return
	}

	state, err := h.tournamentService.Create(r.Context(), req.TournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"success": true, "state": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	state, err := h.tournamentService.Snapshot(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "state": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportTournamentHandler accepts a client-cached snapshot, re-validates its
// invariants and stores it as the new current state.
func (h *TournamentHandler) ImportTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var state models.TournamentState
	if err := readJSON(w, r, &state); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	imported, err := h.tournamentService.Import(r.Context(), tournamentID, &state)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "state": imported}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var req submitResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.MatchID == "" {
		badRequestResponse(w, r, errors.New("match_id is required"))
		return
	}
	if req.ScoreA == nil || req.ScoreB == nil {
		badRequestResponse(w, r, errors.New("score_a and score_b are required"))
		return
	}

	state, err := h.tournamentService.SubmitResult(r.Context(), tournamentID,
		models.MatchRef(req.MatchID), *req.ScoreA, *req.ScoreB, req.PenaltyWinner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "state": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) AdvanceStageHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var req advanceStageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.FromStage == "" {
		badRequestResponse(w, r, errors.New("from_stage is required"))
		return
	}

	state, err := h.tournamentService.AdvanceStage(r.Context(), tournamentID, models.Stage(req.FromStage))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "state": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GroupStandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	groupID := chi.URLParam(r, "groupID")

	rows, err := h.tournamentService.GroupStandings(r.Context(), tournamentID, groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "group": groupID, "standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ThirdPlacesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	rows, err := h.tournamentService.ThirdPlaceRanking(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "third_places": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
