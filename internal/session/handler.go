package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/typemaster/backend/internal/content"
	"github.com/typemaster/backend/internal/engine"
	"github.com/typemaster/backend/internal/models"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the live-session endpoints on the protected
// subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	protected.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	protected.HandleFunc("/sessions/{id}/input", h.TypeInput).Methods("POST")
	protected.HandleFunc("/sessions/{id}/finish", h.FinishSession).Methods("POST")
	protected.HandleFunc("/sessions/{id}", h.CancelSession).Methods("DELETE")
	protected.HandleFunc("/sessions/{id}/live", h.StreamSession).Methods("GET")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	snap, err := h.manager.Create(userID, req)
	if err != nil {
		status, msg := sessionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	snap, err := h.manager.Get(userID, mux.Vars(r)["id"])
	if err != nil {
		status, msg := sessionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) TypeInput(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.TypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	snap, err := h.manager.Input(userID, mux.Vars(r)["id"], req.TypedText)
	if err != nil {
		status, msg := sessionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	snap, err := h.manager.Finish(userID, mux.Vars(r)["id"])
	if err != nil {
		status, msg := sessionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.manager.Cancel(userID, mux.Vars(r)["id"]); err != nil {
		status, msg := sessionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func sessionError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, content.ErrTestNotFound):
		return http.StatusNotFound, "Test not found"
	case errors.Is(err, engine.ErrNotRunning):
		return http.StatusConflict, "Session is not running"
	case errors.Is(err, ErrMissingMode), errors.Is(err, ErrInvalidMode), errors.Is(err, ErrInvalidDuration):
		return http.StatusBadRequest, err.Error()
	}
	log.Printf("[session] error: %v", err)
	return http.StatusInternalServerError, "Session operation failed"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
