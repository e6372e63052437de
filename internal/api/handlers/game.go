package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/hops-games/internal/api/middleware"
	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/service"
	"github.com/go-chi/chi/v5"
)

type GameHandler struct {
	gameService *service.GameService
}

func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type CreateGameRequest struct {
	Words []string `json:"words"`
}

// Get responds with null when the game does not exist.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	game, err := h.gameService.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("ERROR [game.Get] gameID=%s: %v", id, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

// List filters by ownerId, word or publishMonth. Without filters it lists
// the caller's own games.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	q := service.GameQuery{
		OwnerID:      r.URL.Query().Get("ownerId"),
		Word:         r.URL.Query().Get("word"),
		PublishMonth: r.URL.Query().Get("publishMonth"),
	}
	if q == (service.GameQuery{}) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeError(w, domain.ErrUnauthorized)
			return
		}
		q.OwnerID = userID
	}

	games, err := h.gameService.Query(r.Context(), q)
	if err != nil {
		log.Printf("ERROR [game.List] ownerID=%s word=%s month=%s: %v", q.OwnerID, q.Word, q.PublishMonth, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.gameService.Create(r.Context(), service.CreateGameInput{
		Words:   req.Words,
		OwnerID: userID,
	})
	if err != nil {
		log.Printf("ERROR [game.Create] userID=%s: %v", userID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID, _ := middleware.GetUserID(r.Context())

	var upd domain.GameUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.gameService.Update(r.Context(), id, upd, userID)
	if err != nil {
		log.Printf("ERROR [game.Update] gameID=%s userID=%s: %v", id, userID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var linked *domain.LinkedPairsError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, domain.ErrUnauthorized.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrInvalidWords):
		http.Error(w, domain.ErrInvalidWords.Error(), http.StatusBadRequest)
	case errors.As(err, &linked):
		http.Error(w, linked.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNotAdmin):
		http.Error(w, domain.ErrNotAdmin.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrGameNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
