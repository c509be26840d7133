package leaderboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/typemaster/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public leaderboard endpoints.
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/leaderboard/global", h.GetGlobal).Methods("GET")
	api.HandleFunc("/leaderboard/weekly", h.GetWeekly).Methods("GET")
}

func (h *Handler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, models.WindowAllTime)
}

func (h *Handler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, models.WindowLast7Days)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, window models.LeaderboardWindow) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.service.GetLeaderboard(window, limit)
	if err != nil {
		log.Printf("[leaderboard] query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
