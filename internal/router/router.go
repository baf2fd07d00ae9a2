package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/resume-insights-api/internal/handlers"
	"github.com/BerylCAtieno/resume-insights-api/internal/middleware"
	"github.com/BerylCAtieno/resume-insights-api/internal/services"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

func NewRouter(insightService services.InsightService, logger *utils.Logger, maxFileSize int64) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	insightHandler := handlers.NewInsightHandler(insightService, logger, maxFileSize)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api.HandleFunc("/upload-resume", insightHandler.UploadResume).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/insights", insightHandler.ListInsights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/insights/{id}", insightHandler.GetInsight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/insights/{id}/original", insightHandler.DownloadOriginal).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/download-report/{id}", insightHandler.DownloadReport).Methods(http.MethodGet, http.MethodOptions)

	return r
}
