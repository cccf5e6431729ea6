package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timesheet/internal/api"
	"timesheet/internal/config"
	"timesheet/internal/importer"
	"timesheet/internal/store"
)

//go:embed web
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	logger *zap.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	settings, err := importer.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	// 初始化 SQLite Store
	if _, err := config.EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	sqliteStore, err := store.New(config.GetDataPath(cfg, "", config.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	handler := api.NewHandler(api.Options{
		Store:             sqliteStore,
		Settings:          settings,
		ProjectConfigPath: cfg.Project.ConfigPath,
		TemplatePath:      cfg.Excel.TemplatePath,
		UploadDir:         config.GetDataPath(cfg, "uploads", ""),
		ExportDir:         config.GetDataPath(cfg, "exports", ""),
		Logger:            logger,
	})

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		router: router,
		store:  sqliteStore,
		api:    handler,
		logger: logger,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// 上传页面
	sub, _ := fs.Sub(staticFiles, "web")
	s.router.GET("/", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

// requestLogger 用 zap 记录请求
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭存储
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储
func (s *Server) GetStore() *store.Store {
	return s.store
}
