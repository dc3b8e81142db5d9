package routes

import (
	"qastore/app/controllers"
	"qastore/app/middleware"
	"qastore/app/services"

	"github.com/gorilla/mux"
)

// SetupRoutes defines the read-only API and returns a router.
func SetupRoutes(qa *services.QAService) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	qaController := controllers.NewQAController(qa)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users/{id:[0-9]+}/report", qaController.Report).Methods("GET")
	api.HandleFunc("/questions", qaController.Search).Methods("GET")
	api.HandleFunc("/questions/{id:[0-9]+}/answers", qaController.Answers).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", qaController.Show).Methods("GET")

	return router
}
