package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withRateLimit)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/queue-donation", h.enqueueDonation)
		r.Get("/queue-donation", h.queueLookup)
		// batch status is public; the recent-completed section is only
		// attached for authenticated operators (see batchStatus).
		r.Get("/process-batch", h.batchStatus)
		r.Get("/campaigns/{campaignID}", h.getCampaign)
		r.Get("/health", h.health)
		r.Get("/api/version/", h.getServerVersion)
	})

	// operator-only routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/process-batch", h.processBatch)
		r.Post("/campaigns", h.createCampaign)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
