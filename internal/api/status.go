package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"timesheet/internal/model"
	"timesheet/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized       bool                `json:"initialized"`       // 是否已成功导入过
	LastYear          int                 `json:"lastYear"`          // 最近一次导入的年份
	LastMonth         int                 `json:"lastMonth"`         // 最近一次导入的月份
	ProjectConfigPath string              `json:"projectConfigPath"` // 项目配置路径
	ProjectConfigured bool                `json:"projectConfigured"` // 项目配置文件是否存在
	TemplatePath      string              `json:"templatePath"`      // 默认模板
	LastImport        *model.ImportRecord `json:"lastImport,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		ProjectConfigPath: h.projectConfigPath,
		ProjectConfigured: fileExists(h.projectConfigPath),
		TemplatePath:      h.templatePath,
	}

	year, month, err := h.store.GetLastPeriod()
	switch {
	case err == nil:
		resp.Initialized = true
		resp.LastYear = year
		resp.LastMonth = month
	case !errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取最近导入月份失败"})
		return
	}

	records, err := h.store.ListImports(1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取导入记录失败"})
		return
	}
	if len(records) > 0 {
		resp.LastImport = records[0]
	}

	c.JSON(http.StatusOK, resp)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
