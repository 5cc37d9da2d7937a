package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
)

// Services bundles the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	Portfolio *service.PortfolioService
	Stock     *service.StockService
	Insight   *service.InsightService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	holdingHandler := handlers.NewHoldingHandler(services.Portfolio)
	portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
	priceHandler := handlers.NewPriceHandler(services.Stock, services.Portfolio)
	insightHandler := handlers.NewInsightHandler(services.Insight)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)

		r.Get("/portfolio", portfolioHandler.Portfolio)
		r.Post("/refresh-prices", portfolioHandler.RefreshPrices)
		r.Get("/portfolio-history", portfolioHandler.PortfolioHistory)
		r.Get("/sector-breakdown", portfolioHandler.SectorBreakdown)
		r.Get("/portfolio-metrics", portfolioHandler.PortfolioMetrics)

		r.Route("/holdings", func(r chi.Router) {
			r.Get("/", holdingHandler.Holdings)
			r.Post("/", holdingHandler.AddHolding)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateHoldingIDMiddleware)
				r.Delete("/", holdingHandler.DeleteHolding)
			})
		})

		r.Get("/stock-history/{ticker}", priceHandler.StockHistory)
		r.Get("/real-time-prices", priceHandler.RealTimePrices)

		r.Post("/ai-insights", insightHandler.Insights)
	})

	return r
}
