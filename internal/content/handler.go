package content

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/typemaster/backend/internal/models"
	"github.com/typemaster/backend/internal/scoring"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the public content endpoints.
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/practice/content/{mode}", h.GetPracticeContent).Methods("GET")
	api.HandleFunc("/tests", h.ListTests).Methods("GET")
	api.HandleFunc("/tests/{id:[0-9]+}", h.GetTest).Methods("GET")
}

// RegisterAdminRoutes registers the admin-only endpoints on the
// authenticated subrouter. Each handler re-checks the admin flag.
func (h *Handler) RegisterAdminRoutes(protected *mux.Router) {
	protected.HandleFunc("/admin/tests", h.CreateTest).Methods("POST")
	protected.HandleFunc("/admin/tests/{id:[0-9]+}", h.UpdateTest).Methods("PUT")
	protected.HandleFunc("/admin/tests/{id:[0-9]+}", h.DeleteTest).Methods("DELETE")
	protected.HandleFunc("/admin/users", h.ListUsers).Methods("GET")
	protected.HandleFunc("/admin/stats", h.AdminStats).Methods("GET")
}

func (h *Handler) GetPracticeContent(w http.ResponseWriter, r *http.Request) {
	mode := mux.Vars(r)["mode"]
	if !models.ValidMode(mode) {
		mode = models.ModeWords
	}

	body, err := h.store.ContentForMode(mode)
	if err != nil {
		log.Printf("[content] load %s content failed: %v", mode, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load practice content"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": body})
}

func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.store.ListTests()
	if err != nil {
		log.Printf("[content] list tests failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load tests"})
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test id"})
		return
	}

	test, err := h.store.GetTest(id)
	if errors.Is(err, ErrTestNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
		return
	}
	if err != nil {
		log.Printf("[content] get test %d failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load test"})
		return
	}

	writeJSON(w, http.StatusOK, test)
}

func (h *Handler) CreateTest(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.TestUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Title == "" || req.Content == "" || req.Duration <= 0 || req.TargetWPM <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing or invalid test fields"})
		return
	}

	id, err := h.store.CreateTest(req)
	if err != nil {
		log.Printf("[content] create test failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create test"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) UpdateTest(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test id"})
		return
	}

	var req models.TestUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	switch err := h.store.UpdateTest(id, req); {
	case errors.Is(err, ErrTestNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
	case err != nil:
		log.Printf("[content] update test %d failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update test"})
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *Handler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test id"})
		return
	}

	switch err := h.store.DeleteTest(id); {
	case errors.Is(err, ErrTestNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
	case err != nil:
		log.Printf("[content] delete test %d failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete test"})
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	skip := queryInt(r, "skip", 0, 0, 1_000_000)
	limit := queryInt(r, "limit", 50, 1, 100)

	users, err := h.store.ListUsers(skip, limit)
	if err != nil {
		log.Printf("[content] list users failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load users"})
		return
	}
	for i := range users {
		users[i].Level = scoring.LevelForXP(users[i].XP)
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	stats, err := h.store.AdminStats()
	if err != nil {
		log.Printf("[content] admin stats failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// requireAdmin writes a 403 and returns false unless the authenticated
// user has the admin flag.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return false
	}

	isAdmin, err := h.store.IsAdmin(userID)
	if err != nil {
		log.Printf("[content] admin check for user %d failed: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to verify permissions"})
		return false
	}
	if !isAdmin {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Admin access required"})
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, fallback, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
