package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bootcheck/internal/config"
	"bootcheck/internal/engine"
	"bootcheck/internal/handler"
	"bootcheck/internal/metrics"
	"bootcheck/internal/report"
	"bootcheck/internal/repository"
	"bootcheck/internal/service"
	"bootcheck/internal/session"
	"bootcheck/internal/verification"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

// New wires the HTTP surface. handle may be nil when engine resolution failed;
// engineErr then carries the configuration error shown to users.
func New(ctx context.Context, cfg *config.Config, handle *engine.Handle, engineErr error, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)

	var archive repository.ReportArchive
	if cfg.Archive.Enabled {
		a, err := repository.NewS3Archive(ctx, &cfg.Archive, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create report archive: %w", err)
		}
		archive = a
	}

	m := metrics.New()
	client := verification.NewClient(handle, verification.Options{
		Timeout:        cfg.Engine.Timeout,
		Language:       cfg.Engine.Language,
		ObserveLatency: m.ObserveEngine,
	}, log)
	svc := service.NewVerificationService(client, report.NewRenderer(), archive, m, log)

	h := handler.NewHandler(svc, session.NewStore(session.DefaultTTL), cfg, engineErr, log)

	router.GET("/", h.GetUI)
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.POST("/verify", h.VerifyEvidence)
		api.GET("/report", h.GetReport)
		api.GET("/report/pdf", h.DownloadReport)
	}

	// The engine call dominates request time; leave it room inside the write timeout.
	writeTimeout := cfg.Engine.Timeout + 30*time.Second

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   writeTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Bool("engine_ready", handle != nil),
		zap.Bool("archive", archive != nil))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
