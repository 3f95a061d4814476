// Package handler exposes the tutoring backend as a JSON API.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/asethi/tutorhub/internal/i18n"
	"github.com/asethi/tutorhub/internal/model"
	"github.com/asethi/tutorhub/internal/scoring"
	"github.com/asethi/tutorhub/internal/store"
	"github.com/asethi/tutorhub/internal/testgen"
	"github.com/asethi/tutorhub/internal/tutor"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	tutor    *tutor.Service
	composer *testgen.Composer
}

// New creates a new Handler.
func New(s *store.Store, t *tutor.Service, c *testgen.Composer) *Handler {
	return &Handler{store: s, tutor: t, composer: c}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/chat", h.handleChat)
	r.Post("/generate_test", h.handleGenerateTest)
	r.Post("/submit_test", h.handleSubmitTest)
	r.Post("/get_tests", h.handleGetTests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type chatRequest struct {
	StudentID string `json:"studentId"`
	Message   string `json:"message"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	studentID := strings.TrimSpace(req.StudentID)
	message := strings.TrimSpace(req.Message)
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "studentId is required")
		return
	}
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.tutor.Chat(r.Context(), studentID, message)
	if err != nil {
		slog.Error("chat failed", "student", studentID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type generateTestRequest struct {
	StudentID string `json:"studentId"`
}

func (h *Handler) handleGenerateTest(w http.ResponseWriter, r *http.Request) {
	var req generateTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "studentId is required")
		return
	}

	test, err := h.composer.Compose(r.Context(), studentID)
	if err != nil {
		slog.Error("test composition failed", "student", studentID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"testId":    test.ID,
		"questions": test.Questions,
	})
}

type submitTestRequest struct {
	StudentID string                  `json:"studentId"`
	TestID    string                  `json:"testId"`
	Answers   []model.SubmittedAnswer `json:"answers"`
}

type submitTestResponse struct {
	Message       string                         `json:"message"`
	Score         *string                        `json:"score"`
	SubjectScores map[string]*model.SubjectScore `json:"subjectScores"`
}

func (h *Handler) handleSubmitTest(w http.ResponseWriter, r *http.Request) {
	var req submitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	studentID := strings.TrimSpace(req.StudentID)
	testID := strings.TrimSpace(req.TestID)
	if studentID == "" || testID == "" {
		writeError(w, http.StatusBadRequest, "studentId and testId are required")
		return
	}

	test, err := h.store.TestByID(studentID, testID)
	if err != nil {
		slog.Error("load test failed", "student", studentID, "test", testID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if test == nil {
		writeError(w, http.StatusNotFound, "test not found")
		return
	}

	score, breakdown := scoring.Score(req.Answers)
	if err := h.store.CompleteTest(studentID, testID, score, req.Answers, breakdown); err != nil {
		slog.Error("complete test failed", "student", studentID, "test", testID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, submitTestResponse{
		Message:       i18n.T(r.Context(), "TestSubmitted"),
		Score:         score,
		SubjectScores: breakdown,
	})
}

type getTestsRequest struct {
	StudentID string `json:"studentId"`
}

func (h *Handler) handleGetTests(w http.ResponseWriter, r *http.Request) {
	var req getTestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "studentId is required")
		return
	}

	tests, err := h.store.TestsByStudent(studentID)
	if err != nil {
		slog.Error("list tests failed", "student", studentID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tests == nil {
		tests = []model.Test{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tests": tests})
}
