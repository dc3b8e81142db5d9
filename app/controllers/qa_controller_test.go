package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qastore/app/models"
	"qastore/app/repositories"
	"qastore/app/repositories/mock"
	"qastore/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestQAController(t *testing.T) (*QAController, *mock.Store) {
	store := mock.NewStore()
	posts := []map[string]interface{}{
		{"Id": "1", "PostTypeId": "1", "Title": "Mongo text search", "Body": "How do text indexes work?", "OwnerUserId": "42",
			"Score": 3, "ViewCount": 10, "AnswerCount": 2, "AcceptedAnswerId": "3", "CreationDate": "2020-01-01T00:00:00.000"},
		{"Id": "2", "PostTypeId": "2", "ParentId": "1", "Body": "Create one", "Score": 1, "CreationDate": "2020-01-02T00:00:00.000"},
		{"Id": "3", "PostTypeId": "2", "ParentId": "1", "Body": "Use $text", "OwnerUserId": "42", "Score": 5, "CreationDate": "2020-01-03T00:00:00.000"},
	}
	require.NoError(t, store.Replace(context.Background(), repositories.PostsCollection, posts))
	return NewQAController(services.NewQAService(store, "")), store
}

func setupRouter(controller *QAController) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/users/{id:[0-9]+}/report", controller.Report).Methods("GET")
	router.HandleFunc("/questions", controller.Search).Methods("GET")
	router.HandleFunc("/questions/{id:[0-9]+}/answers", controller.Answers).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", controller.Show).Methods("GET")
	return router
}

func serve(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQAController(t *testing.T) {
	controller, store := setupTestQAController(t)
	router := setupRouter(controller)

	t.Run("user report", func(t *testing.T) {
		w := serve(router, "/users/42/report")
		assert.Equal(t, http.StatusOK, w.Code)

		var report services.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, services.Report{Questions: 1, AvgQuestionScore: 3, Answers: 1, AvgAnswerScore: 5}, report)
	})

	t.Run("search", func(t *testing.T) {
		w := serve(router, "/questions?q=TEXT")
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Count     int            `json:"count"`
			Questions []*models.Post `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
		require.Len(t, response.Questions, 1)
		assert.Equal(t, "1", response.Questions[0].ID)
	})

	t.Run("search without matches", func(t *testing.T) {
		w := serve(router, "/questions?q=cassandra")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"questions":[]`)
	})

	t.Run("search requires keywords", func(t *testing.T) {
		w := serve(router, "/questions?q=%20")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("show post", func(t *testing.T) {
		w := serve(router, "/posts/2")
		assert.Equal(t, http.StatusOK, w.Code)

		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, "1", post.ParentID)
		assert.Equal(t, models.PostTypeAnswer, post.PostTypeID)
	})

	t.Run("missing post", func(t *testing.T) {
		w := serve(router, "/posts/999")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Post not found"}`, w.Body.String())
	})

	t.Run("answers with accepted first", func(t *testing.T) {
		w := serve(router, "/questions/1/answers")
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Accepted bool           `json:"accepted"`
			Answers  []*models.Post `json:"answers"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Accepted)
		require.Len(t, response.Answers, 2)
		assert.Equal(t, "3", response.Answers[0].ID)
		assert.Equal(t, "2", response.Answers[1].ID)
	})

	t.Run("answers of an answer", func(t *testing.T) {
		w := serve(router, "/questions/2/answers")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store.Err = errors.New("store down")
		defer func() { store.Err = nil }()

		assert.Equal(t, http.StatusInternalServerError, serve(router, "/posts/1").Code)
		assert.Equal(t, http.StatusInternalServerError, serve(router, "/users/42/report").Code)
		assert.Equal(t, http.StatusInternalServerError, serve(router, "/questions?q=mongo").Code)
	})
}
