package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/econova/nova-api/internal/api"
	apiMiddleware "github.com/econova/nova-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	analysisHandler := api.NewAnalysisHandler(app.orchestrator, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api/nova", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/analysis/sales", analysisHandler.SubmitSalesAnalysis)
		r.Post("/analysis/documents", analysisHandler.SubmitDocumentAnalysis)
		r.Post("/analysis/vouchers", analysisHandler.SubmitVoucherAnalysis)
		r.Get("/analysis/{id}", analysisHandler.GetAnalysis)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
