package main

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/toolhub/toolhub_backend/config"
	"github.com/toolhub/toolhub_backend/matching"
	"github.com/toolhub/toolhub_backend/middlewares"
	"github.com/toolhub/toolhub_backend/models"
	"github.com/toolhub/toolhub_backend/utils"
)

// application bundles the injected dependencies every handler needs.
// Stores are interfaces so tests and local development can run on the
// in-memory implementations without MySQL or Redis.
type application struct {
	logger     *logrus.Logger
	versions   models.VersionStore
	scanCache  models.ScanCacheStore
	audit      models.AuditStore
	blobs      utils.BlobStore
	engine     *matching.Engine
	classifier *matching.Classifier
	thresholds matching.Thresholds

	secretKey        string
	maxInventoryRows int
	maxScanRows      int

	ready atomic.Bool
}

func newApplication(
	logger *logrus.Logger,
	thresholds matching.Thresholds,
	versions models.VersionStore,
	scanCache models.ScanCacheStore,
	audit models.AuditStore,
	blobs utils.BlobStore,
) *application {
	app := &application{
		logger:           logger,
		versions:         versions,
		scanCache:        scanCache,
		audit:            audit,
		blobs:            blobs,
		engine:           matching.NewEngine(thresholds),
		classifier:       matching.NewClassifier(thresholds),
		thresholds:       thresholds,
		secretKey:        config.SecretKey(),
		maxInventoryRows: config.MaxInventoryRows(),
		maxScanRows:      config.MaxScanRows(),
	}
	app.ready.Store(true)
	return app
}

// newRouter wires the full middleware chain and routes. main() installs
// the same chain; tests call this directly against memory stores.
func (app *application) newRouter() *gin.Engine {
	r := gin.New()

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if !app.ready.Load() {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production requires an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "X-Auth-User", "X-Auth-Role", "x-correlation-id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(config.GetRedisDB(), limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(app.logger))
	r.Use(gin.Recovery())

	r.POST("/infosec/upload", middlewares.RequireRole(middlewares.RoleInfosec), app.uploadInventoryHandler())
	r.GET("/infosec/versions", middlewares.RequireRole(middlewares.RoleInfosec), app.listVersionsHandler())

	r.POST("/lookup", app.lookupHandler())
	r.POST("/scan", app.scanHandler())
	r.GET("/scan/results/:token", app.scanResultsHandler())
	r.GET("/scan/download/:token/:format", app.scanDownloadHandler())
	r.GET("/template", app.templateHandler())

	r.GET("/audit", middlewares.RequireRole(middlewares.RoleAuditor), app.auditLogHandler())

	r.NoRoute(customNotFoundHandler)
	return r
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
