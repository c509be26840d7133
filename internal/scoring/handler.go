package scoring

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/typemaster/backend/internal/models"
)

type Handler struct {
	service *Service
	store   *Store
}

func NewHandler(service *Service, store *Store) *Handler {
	return &Handler{service: service, store: store}
}

// RegisterRoutes registers result submission, history and stats
// endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/practice/session", h.SubmitPractice).Methods("POST")
	protected.HandleFunc("/practice/history", h.GetPracticeHistory).Methods("GET")
	protected.HandleFunc("/practice/stats", h.GetPracticeStats).Methods("GET")
	protected.HandleFunc("/tests/submit", h.SubmitTest).Methods("POST")
	protected.HandleFunc("/tests/results/history", h.GetTestHistory).Methods("GET")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) SubmitPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitPracticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	subID, ok := normalizeSubmissionID(req.SubmissionID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "submission_id must be a UUID"})
		return
	}
	req.SubmissionID = subID

	resp, err := h.service.FinalizePractice(userID, req)
	if err != nil {
		status, msg := submissionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	subID, ok := normalizeSubmissionID(req.SubmissionID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "submission_id must be a UUID"})
		return
	}
	req.SubmissionID = subID

	resp, err := h.service.FinalizeTest(userID, req)
	if err != nil {
		status, msg := submissionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetPracticeHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	results, err := h.store.PracticeHistory(userID, limitParam(r, 20))
	if err != nil {
		log.Printf("[scoring] GetPracticeHistory error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get history"})
		return
	}
	if results == nil {
		results = []models.PracticeResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) GetTestHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	results, err := h.store.TestHistory(userID, limitParam(r, 20))
	if err != nil {
		log.Printf("[scoring] GetTestHistory error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get results"})
		return
	}
	if results == nil {
		results = []models.TestResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) GetPracticeStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	stats, err := h.store.PracticeStats(userID)
	if err != nil {
		log.Printf("[scoring] GetPracticeStats error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// normalizeSubmissionID validates a client-supplied idempotency key, or
// mints one when the client did not send any (at the cost of replay
// protection for that submission).
func normalizeSubmissionID(raw string) (string, bool) {
	if raw == "" {
		return uuid.NewString(), true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func submissionError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTestNotFound):
		return http.StatusNotFound, "Test not found"
	case errors.Is(err, ErrInvalidMode), errors.Is(err, ErrMissingReference), errors.Is(err, ErrInvalidDuration):
		return http.StatusBadRequest, err.Error()
	}
	log.Printf("[scoring] submission error: %v", err)
	return http.StatusInternalServerError, "Failed to save result"
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 100 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
