package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"fixpoint-backend/config"
	"fixpoint-backend/internal/mw"
	"fixpoint-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. webpushOptions and
// notifier may be nil when push notifications are disabled.
func NewRouter(s *store.Store, cfg *config.ServerConfig, webpushOptions *webpush.Options, notifier Notifier) *gin.Engine {
	r := gin.New()
	r.Use(mw.Logger(), gin.Recovery(), mw.CORS(cfg.AllowedOrigins))

	handler := NewHandler(s, webpushOptions, notifier)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	caching := mw.Cache(cache.New(ttl, 2*ttl+time.Minute), ttl)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "fixpoint backend is running")
	})

	api := r.Group("/api")
	api.Use(rateLimiter, caching)
	{
		registerCatalog(api, "/device-types", s.DeviceTypes)
		registerCatalog(api, "/brands", s.Brands)
		registerCatalog(api, "/repairs", s.Repairs)

		api.GET("/models", handler.GetModels)
		api.POST("/models", handler.CreateModel)
		api.PUT("/models/:id", handler.RenameModel)
		api.DELETE("/models/:id", handler.DeleteModel)

		api.GET("/model-repairs", handler.GetModelRepairs)
		api.POST("/model-repairs", handler.UpsertModelRepair)
		api.DELETE("/model-repairs/:id", handler.DeleteModelRepair)

		api.GET("/fixpoints", handler.GetFixpoints)
		api.POST("/fixpoints", handler.CreateFixpoint)
		api.GET("/fixpoints/:id", handler.GetFixpoint)
		api.PUT("/fixpoints/:id", handler.UpdateFixpoint)
		api.DELETE("/fixpoints/:id", handler.DeleteFixpoint)
		api.GET("/fixpoints/:id/users", handler.GetFixpointUsers)
		api.POST("/fixpoints/:id/users", handler.CreateFixpointUser)
		api.PUT("/fixpoints/:id/subscriptions", handler.PutSubscription)
		api.DELETE("/fixpoints/:id/subscriptions", handler.DeleteSubscription)

		api.POST("/quotes", handler.CreateQuote)
		api.GET("/quotes", handler.GetQuotes)
		api.GET("/quotes/:id", handler.GetQuote)
		api.PUT("/quotes/:id/assign", handler.AssignQuote)
		api.PUT("/quotes/:id/status", handler.SetQuoteStatus)
		api.GET("/fixpoint/quotes", handler.GetFixpointQuotes)

		api.GET("/stats/overview", handler.GetStatsOverview)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
