package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/linkbio/backend/internal/api"
	"github.com/pageza/linkbio/backend/internal/middleware"
)

// Deps are the services and infrastructure the router wires into handlers.
type Deps struct {
	Auth     api.AuthService
	Users    api.UserService
	Profiles api.ProfileService
	Links    api.LinkService

	// DB backs /health. Nil skips the ping.
	DB             api.Pinger
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *slog.Logger
}

// SetupRouter configures the application routes
func SetupRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", api.HealthCheck(deps.DB))
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.AuthMiddleware(deps.Auth)
	api.NewUserHandler(deps.Auth, deps.Users, logger).RegisterRoutes(router, requireAuth)
	api.NewProfileHandler(deps.Profiles, logger).RegisterRoutes(router, requireAuth)
	api.NewLinkHandler(deps.Links, logger).RegisterRoutes(router, requireAuth)

	return router
}
