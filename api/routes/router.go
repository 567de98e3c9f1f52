package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketdesk/api/controllers"
	"github.com/angelmondragon/marketdesk/api/middleware"
	"github.com/angelmondragon/marketdesk/pkg/config"
	"github.com/angelmondragon/marketdesk/pkg/enums"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// RateLimiter counts hits in a fixed window.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Services bundles what the HTTP surface calls into.
type Services struct {
	Records   controllers.RecordHandles
	Enriched  controllers.EnrichedLister
	Scanner   controllers.Scanner
	Files     controllers.FileUploader
	Dashboard controllers.DashboardService
	Chat      controllers.ChatService
	Assistant controllers.TextAssistant
}

// NewRouter wires the HTTP surface. A nil limiter disables rate limiting of the AI endpoints.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc Services,
	limiter RateLimiter,
	checks map[string]controllers.Pinger,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	aiPolicy := middleware.NewRateLimitPolicy("ai", cfg.RateLimit.AIWindow, cfg.RateLimit.AIIPLimit)
	aiRateLimit := middleware.RateLimit(aiPolicy, limiter, logg)
	maxUpload := cfg.Scan.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ForwardSession(cfg.RecordStore.SessionCookieName))

		for _, entity := range enums.Entities() {
			r.Route("/"+entity.String(), func(r chi.Router) {
				r.Get("/", controllers.ListRecords(entity, svc.Records, svc.Enriched, logg))
				r.Post("/", controllers.CreateRecord(entity, svc.Records, logg))
				r.With(aiRateLimit).Post("/scan", controllers.ScanRecord(entity, svc.Scanner, maxUpload, logg))
				r.Get("/{recordId}", controllers.GetRecord(entity, svc.Records, logg))
				r.Patch("/{recordId}", controllers.UpdateRecord(entity, svc.Records, logg))
				r.Delete("/{recordId}", controllers.DeleteRecord(entity, svc.Records, logg))
				if entity == enums.EntityOrders {
					r.Post("/{recordId}/advance", controllers.AdvanceOrder(svc.Dashboard, logg))
				}
			})
		}

		r.Get("/scans/{scanId}", controllers.ScanPhase(svc.Scanner, logg))
		r.Post("/files", controllers.UploadFile(svc.Files, maxUpload, logg))
		r.Get("/dashboard", controllers.DashboardOverview(svc.Dashboard, logg))

		r.Group(func(r chi.Router) {
			r.Use(aiRateLimit)
			r.Post("/chat", controllers.Chat(svc.Chat, maxUpload, logg))
			r.Route("/ai", func(r chi.Router) {
				r.Post("/summarize", controllers.Summarize(svc.Assistant, logg))
				r.Post("/translate", controllers.Translate(svc.Assistant, logg))
				r.Post("/classify", controllers.Classify(svc.Assistant, logg))
			})
		})
	})

	return r
}
