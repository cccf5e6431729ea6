package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timesheet/internal/importer"
	"timesheet/internal/store"
)

// Options API 处理器依赖
type Options struct {
	Store             *store.Store
	Settings          importer.Settings
	ProjectConfigPath string // 项目配置文件（上传时未附带配置则使用它）
	TemplatePath      string // 默认模板（上传时未附带模板则使用它）
	UploadDir         string // 上传文件临时目录
	ExportDir         string // 导出结果目录
	Logger            *zap.Logger
}

// Handler API 处理器
type Handler struct {
	store             *store.Store
	settings          importer.Settings
	projectConfigPath string
	templatePath      string
	uploadDir         string
	exportDir         string
	logger            *zap.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:             opts.Store,
		settings:          opts.Settings,
		projectConfigPath: opts.ProjectConfigPath,
		templatePath:      opts.TemplatePath,
		uploadDir:         opts.UploadDir,
		exportDir:         opts.ExportDir,
		logger:            logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 项目配置（成员、假期、日期格式）
	router.GET("/project", h.GetProject)
	router.PUT("/project", h.UpdateProject)

	// 导入并写表
	router.POST("/import", h.Import)

	// 导入历史
	router.GET("/imports", h.ListImports)
	router.GET("/imports/:id", h.GetImport)
	router.GET("/imports/:id/download", h.DownloadImport)
}
