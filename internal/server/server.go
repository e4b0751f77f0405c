package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simdiag/internal/analyzer"
	"simdiag/internal/config"
	"simdiag/internal/handler"
	"simdiag/internal/repository"
	"simdiag/internal/service"
	"simdiag/web"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

// New wires the analyzer, history, archive and HTTP surface. Extra analyzer
// options are applied after the configured delay range.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...analyzer.Option) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	history := repository.NewMemoryHistory()
	metrics := NewMetrics(history)

	archive := repository.NewNopArchive()
	if cfg.Archive.Enabled {
		archive, err = repository.NewS3Archive(ctx, &cfg.S3, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 archive: %w", err)
		}
	}

	sim, err := analyzer.New(cfg.Analyzer.MinDelay, cfg.Analyzer.MaxDelay, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	analysisService := service.NewAnalysisService(metrics.Instrument(sim), history, archive, service.Options{
		KeepImageData:       cfg.App.KeepImageData,
		HistoryEnabled:      cfg.App.HistoryEnabled,
		PreviewMaxDimension: cfg.App.PreviewMaxDimension,
	}, log)

	h := handler.NewHandler(analysisService, cfg.App.MaxUploadSize, log)

	router.Use(accessLog(log), metrics.Middleware(), corsMiddleware(cfg.Server.CORSOrigins))

	router.GET("/", h.GetUI)
	router.POST("/upload", h.UploadFile)
	router.GET("/history", h.ListHistory)
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", metrics.Handler())

	router.StaticFS("/static", http.FS(web.Static()))

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Addr(),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Bool("history_enabled", cfg.App.HistoryEnabled),
		zap.Bool("archive_enabled", cfg.Archive.Enabled))

	return server, nil
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("host", s.cfg.Server.Host),
		zap.String("port", s.cfg.Server.Port),
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
