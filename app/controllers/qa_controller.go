package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"qastore/app/models"
	"qastore/app/repositories"
	"qastore/app/services"

	"github.com/gorilla/mux"
)

// QAController serves read-only JSON views of the Q&A store
type QAController struct {
	qa *services.QAService
}

// NewQAController creates a new QAController
func NewQAController(qa *services.QAService) *QAController {
	return &QAController{qa: qa}
}

// Report handles the activity summary of one user
func (c *QAController) Report(w http.ResponseWriter, r *http.Request) {
	report, err := c.qa.UserReport(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.sendError(w, "Failed to build report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	c.sendJSON(w, report)
}

// Search handles keyword search over questions
func (c *QAController) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		c.sendError(w, "Query parameter q is required", http.StatusBadRequest)
		return
	}
	questions, err := c.qa.Search(r.Context(), q)
	if err != nil {
		c.sendError(w, "Failed to search: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if questions == nil {
		questions = []*models.Post{}
	}
	c.sendJSON(w, map[string]interface{}{
		"query":     q,
		"count":     len(questions),
		"questions": questions,
	})
}

// Show handles displaying a single post
func (c *QAController) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := c.lookup(w, r)
	if !ok {
		return
	}
	c.sendJSON(w, post)
}

// Answers handles listing the answers of a question, accepted answer first
func (c *QAController) Answers(w http.ResponseWriter, r *http.Request) {
	question, ok := c.lookup(w, r)
	if !ok {
		return
	}
	if !question.IsQuestion() {
		c.sendError(w, "Post is not a question", http.StatusBadRequest)
		return
	}
	accepted, answers, err := c.qa.GetAnswers(r.Context(), question)
	if err != nil {
		c.sendError(w, "Failed to fetch answers: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if answers == nil {
		answers = []*models.Post{}
	}
	c.sendJSON(w, map[string]interface{}{
		"accepted": accepted,
		"answers":  answers,
	})
}

func (c *QAController) lookup(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := c.qa.GetPost(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, repositories.ErrNotFound) {
		c.sendError(w, "Post not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		c.sendError(w, "Failed to fetch post: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return post, true
}

func (c *QAController) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (c *QAController) sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
