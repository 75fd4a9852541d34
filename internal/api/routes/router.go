package routes

import (
	"net/http"

	"github.com/careclear/prescreen-dashboard/backend/internal/api/handlers"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	prescreenHandler  *handlers.PrescreenHandler
	funnelHandler     *handlers.FunnelHandler
	insightsHandler   *handlers.InsightsHandler
	complianceHandler *handlers.ComplianceHandler
	consultHandler    *handlers.ConsultHandler
	sseHandler        *handlers.SSEHandler

	authMiddleware  *middleware.AuthMiddleware
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	prescreenHandler *handlers.PrescreenHandler,
	funnelHandler *handlers.FunnelHandler,
	insightsHandler *handlers.InsightsHandler,
	complianceHandler *handlers.ComplianceHandler,
	consultHandler *handlers.ConsultHandler,
	sseHandler *handlers.SSEHandler,
	authMiddleware *middleware.AuthMiddleware,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		prescreenHandler:  prescreenHandler,
		funnelHandler:     funnelHandler,
		insightsHandler:   insightsHandler,
		complianceHandler: complianceHandler,
		consultHandler:    consultHandler,
		sseHandler:        sseHandler,

		authMiddleware:  authMiddleware,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Pre-screen endpoints
	r.mux.HandleFunc("GET /api/prescreens", r.prescreenHandler.ListPrescreens)
	r.mux.HandleFunc("GET /api/prescreens/{id}", r.prescreenHandler.GetPrescreen)
	r.mux.HandleFunc("PATCH /api/prescreens/{id}", r.prescreenHandler.UpdatePrescreen)
	r.mux.HandleFunc("GET /api/prescreens/{id}/audit", r.prescreenHandler.GetAuditTrail)

	// Funnel endpoints
	r.mux.HandleFunc("GET /api/funnel", r.funnelHandler.GetFunnel)

	// Insights endpoints
	r.mux.HandleFunc("GET /api/insights/questions", r.insightsHandler.GetQuestionInsights)

	// Compliance endpoints
	r.mux.HandleFunc("GET /api/compliance", r.complianceHandler.GetComplianceFlags)

	// Consultation enquiry proxy
	r.mux.HandleFunc("POST /api/consults", r.consultHandler.SubmitConsult)

	// Live record updates
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/prescreens", r.sseHandler.StreamRecordUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// Auth sits outside caching so cached responses are never served to
	// unauthenticated callers, and the session is available for cache keys.
	if r.authMiddleware != nil {
		handler = r.authMiddleware.Handler(handler)
	}

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
