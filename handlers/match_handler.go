package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/cricket-scorer/services"
)

type MatchHandler struct {
	scoringService   services.ScoringService
	bracketService   services.BracketService
	scorecardService services.ScorecardService
}

func NewMatchHandler(scoring services.ScoringService, bracket services.BracketService, scorecards services.ScorecardService) *MatchHandler {
	return &MatchHandler{
		scoringService:   scoring,
		bracketService:   bracket,
		scorecardService: scorecards,
	}
}

// StartInnings godoc
// @Summary Открыть следующий иннинг матча
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body services.StartInningsInput true "Batting side and opening lineup"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Innings cannot be started in the current state"
// @Security BearerAuth
// @Router /matches/{matchID}/innings [post]
func (h *MatchHandler) StartInnings(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input services.StartInningsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	innings, err := h.scoringService.StartInnings(r.Context(), actor, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"innings": innings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordDelivery godoc
// @Summary Записать подачу (один мяч)
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body services.RecordDeliveryInput true "Delivery"
// @Success 201 {object} services.DeliveryResult
// @Failure 409 {object} map[string]string "Match completed or no active innings"
// @Failure 422 {object} map[string]string "Invalid delivery"
// @Security BearerAuth
// @Router /matches/{matchID}/deliveries [post]
func (h *MatchHandler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input services.RecordDeliveryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scoringService.RecordDelivery(r.Context(), actor, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveTie godoc
// @Summary Назначить победителя матча, закончившегося вничью
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} services.TieResolution
// @Security BearerAuth
// @Router /matches/{matchID}/resolve-tie [post]
func (h *MatchHandler) ResolveTie(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input struct {
		Winner string `json:"winner"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	resolution, err := h.bracketService.ResolveTie(r.Context(), actor, matchID, input.Winner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, resolution, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetScorecard godoc
// @Summary Полная карточка матча
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Param balls query bool false "Include ball-by-ball events"
// @Success 200 {object} models.Scorecard
// @Failure 404 {object} map[string]string
// @Router /matches/{matchID}/scorecard [get]
func (h *MatchHandler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	withBalls := true
	if v := r.URL.Query().Get("balls"); v != "" {
		if withBalls, err = strconv.ParseBool(v); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	card, err := h.scorecardService.GetScorecard(r.Context(), matchID, withBalls)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, card, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
