package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rfp-backend/internal/compare"
	"rfp-backend/internal/documents"
	"rfp-backend/internal/reports"
	"rfp-backend/internal/shared/config"
	"rfp-backend/internal/shared/metrics"
	"rfp-backend/internal/shared/server/middleware"
	"rfp-backend/internal/shared/server/respond"
	"rfp-backend/internal/shared/storage/artifact"
	"rfp-backend/internal/shared/storage/db"
	localstore "rfp-backend/internal/shared/storage/object/local"
	"rfp-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"GENERATE": {Rate: 1, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost &&
					(c.FullPath() == "/api/v1/reports" || c.FullPath() == "/api/v1/documents/analyze") {
					return "GENERATE"
				}
				return ""
			},
		}),
	)

	// Dependencies
	store, err := reports.NewStore(cfg.ReportDir)
	if err != nil {
		log.Fatalf("report store init failed: %v", err)
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var repo reports.Repo
	if sqlDB != nil {
		repo = &reports.PGRepo{DB: sqlDB}
	} else {
		repo = reports.NewMemoryRepo()
	}

	var renderer reports.Renderer = reports.NewWKHTMLRenderer(cfg.WkhtmltopdfPath, cfg.RenderTimeout)

	var mirror artifact.Mirror
	if cfg.MinioEndpoint != "" {
		m, err := artifact.NewMinioMirror(context.Background(),
			cfg.MinioEndpoint, cfg.MinioRegion, cfg.MinioBucket,
			cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			telemetry.Warn("bootstrap.mirror_unavailable", map[string]any{"err": err.Error()})
		} else {
			mirror = m
		}
	}

	reportSvc := reports.NewService(store, repo, renderer)
	reportSvc.Mirror = mirror
	reportSvc.BaseURL = cfg.BaseURL
	reportHandler := reports.NewHandler(reportSvc)

	objects := localstore.New(cfg.LocalStoreDir)
	docSvc := documents.NewService(objects, compare.Unconfigured{}, reportSvc)
	docHandler := documents.NewHandler(docSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	reportHandler.RegisterRoutes(api)
	docHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
