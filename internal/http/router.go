// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, authentication, CORS, security headers, and rate limiting.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-health-backend/docs"
	"github.com/tbourn/go-health-backend/internal/config"
	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/http/handlers"
	"github.com/tbourn/go-health-backend/internal/http/middleware"
	"github.com/tbourn/go-health-backend/internal/repo"
	"github.com/tbourn/go-health-backend/internal/services"
)

const (
	maxBodyBytes       = 1 << 20
	documentCacheSize  = 256
	directionCacheSize = 64
	healthPingTimeout  = 2 * time.Second
)

// userRepoShim adapts the repository free functions to the services.UserRepo
// interface expected by the AuthService.
type userRepoShim struct{}

// CreateUser proxies repo.CreateUser.
func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, email, passwordHash, name string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, email, passwordHash, name)
}

// CreateTelegramUser proxies repo.CreateTelegramUser.
func (userRepoShim) CreateTelegramUser(ctx context.Context, db *gorm.DB, telegramID int64, username *string, name string) (*domain.User, error) {
	return repo.CreateTelegramUser(ctx, db, telegramID, username, name)
}

// FindUserByID proxies repo.FindUserByID.
func (userRepoShim) FindUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return repo.FindUserByID(ctx, db, id)
}

// FindUserByEmail proxies repo.FindUserByEmail.
func (userRepoShim) FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.FindUserByEmail(ctx, db, email)
}

// FindUserByTelegramID proxies repo.FindUserByTelegramID.
func (userRepoShim) FindUserByTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) (*domain.User, error) {
	return repo.FindUserByTelegramID(ctx, db, telegramID)
}

// LinkTelegram proxies repo.LinkTelegram.
func (userRepoShim) LinkTelegram(ctx context.Context, db *gorm.DB, userID uint, telegramID int64, username *string) error {
	return repo.LinkTelegram(ctx, db, userID, telegramID, username)
}

// CreateTelegramLog proxies repo.CreateTelegramLog.
func (userRepoShim) CreateTelegramLog(ctx context.Context, db *gorm.DB, userID uint, actionType string, message *string) (*domain.TelegramBotLog, error) {
	return repo.CreateTelegramLog(ctx, db, userID, actionType, message)
}

func (userRepoShim) IsDuplicate(err error) bool { return repo.IsDuplicate(err) }

func (userRepoShim) IsNotFound(err error) bool { return errors.Is(err, repo.ErrNotFound) }

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access logging, redacting when cfg.LogRedact is set
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip
//  8. OptionalAuth: a valid bearer token sets the caller's user id
//  9. Rate limiter (per user/IP)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	authSvc := services.NewAuthService(db, userRepoShim{}, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	docSvc, err := services.NewDocumentService(db, documentCacheSize)
	if err != nil {
		return err
	}
	dirSvc, err := services.NewDirectionService(db, directionCacheSize)
	if err != nil {
		return err
	}

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())

	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-Telegram-Bot-Api-Secret-Token"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.OptionalAuth(authSvc))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match"}
	exposeHeaders := []string{"X-Request-ID", "ETag", "Content-Length"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, hit := allowed[origin]; hit {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// HSTS only when enabled and the request is HTTPS.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		NoStore:       true,
		EnablePolicy:  true,
		ExposeHeaders: []string{"ETag"},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", healthHandler(db, cfg.TelegramBotToken != ""))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Services{
		Auth:       authSvc,
		Profiles:   services.NewProfileService(db),
		Plans:      services.NewPlanService(db),
		Metrics:    services.NewMetricService(db),
		Goals:      &services.GoalService{DB: db},
		Documents:  docSvc,
		Tokens:     &services.TokenService{DB: db},
		Telegram:   services.NewTelegramService(db),
		Directions: dirSvc,
		Dashboard:  &services.DashboardService{DB: db},
	})

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/telegram-auth", h.TelegramAuth)
		auth.POST("/connect-telegram", h.ConnectTelegram)

		api.GET("/health-directions", h.ListDirections)

		u := api.Group("/users/:userId")

		u.GET("/profile", h.GetProfile)
		u.PUT("/profile", h.UpdateProfile)

		u.GET("/plans", h.ListPlans)
		u.POST("/plans", h.CreatePlan)
		u.PATCH("/plans/:planId", h.UpdatePlan)
		u.DELETE("/plans/:planId", h.DeletePlan)

		u.GET("/metrics", h.ListMetrics)
		u.POST("/metrics", h.RecordMetric)

		u.GET("/goals", h.ListGoals)
		u.POST("/goals", h.CreateGoal)

		u.GET("/documents", h.ListDocuments)
		u.POST("/documents", h.CreateDocument)
		u.GET("/documents/search", h.SearchDocuments)
		u.GET("/documents/:documentId", h.GetDocument)

		u.GET("/tokens", h.GetTokens)
		u.POST("/tokens", h.AddTokens)

		u.GET("/telegram/settings", h.GetTelegramSettings)
		u.PUT("/telegram/settings", h.UpdateTelegramSettings)
		u.GET("/telegram/logs", h.ListTelegramLogs)

		u.GET("/directions/:name/plans", h.ListDirectionPlans)
		u.POST("/directions/:name/plans", h.CreateDirectionPlan)
		u.GET("/directions/:name/metrics", h.ListDirectionMetrics)
		u.POST("/directions/:name/metrics", h.RecordDirectionMetric)
		u.GET("/directions/:name/reports", h.ListReports)
		u.POST("/directions/:name/reports", h.CreateReport)

		u.GET("/direction-plans/:planId/tasks", h.ListTasks)
		u.POST("/direction-plans/:planId/tasks", h.CreateTask)
		u.PATCH("/direction-plans/:planId/tasks/:taskId", h.UpdateTask)

		u.GET("/dashboard", h.GetDashboard)
		u.PUT("/dashboard", h.UpdateDashboard)
	}
	return nil
}

// healthHandler reports store reachability and whether a Telegram bot token
// is configured. The token itself is never echoed.
func healthHandler(db *gorm.DB, botConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		status, code, database := "ok", http.StatusOK, "connected"
		if err := repo.Ping(ctx, db); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("health: database ping failed")
			status, code, database = "degraded", http.StatusServiceUnavailable, "unavailable"
		}
		body := gin.H{
			"status":       status,
			"database":     database,
			"telegram_bot": botConfigured,
		}
		if code != http.StatusOK {
			body["code"] = handlers.ErrCodeUnavailable
		}
		c.JSON(code, body)
	}
}

// limitBody caps the request body size for all endpoints to maxBytes using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body reads
// to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
