package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"timesheet/internal/model"
	"timesheet/internal/store"
)

// ImportDetailResponse 导入详情
type ImportDetailResponse struct {
	*model.ImportRecord
	Diagnostics []model.Diagnostic `json:"diagnostics"`
}

// ListImports 导入历史
// GET /api/imports?limit=50
func (h *Handler) ListImports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须是正整数"})
		return
	}

	records, err := h.store.ListImports(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取导入记录失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

// GetImport 导入详情（含行级诊断）
// GET /api/imports/:id
func (h *Handler) GetImport(c *gin.Context) {
	record, ok := h.lookupImport(c)
	if !ok {
		return
	}

	diagnostics, err := h.store.ListDiagnostics(record.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取诊断信息失败"})
		return
	}
	c.JSON(http.StatusOK, ImportDetailResponse{
		ImportRecord: record,
		Diagnostics:  diagnostics,
	})
}

// DownloadImport 下载导入生成的工作簿
// GET /api/imports/:id/download
func (h *Handler) DownloadImport(c *gin.Context) {
	record, ok := h.lookupImport(c)
	if !ok {
		return
	}
	if record.Status != model.ImportSucceeded || !fileExists(record.OutputPath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在或已过期"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(filepath.Base(record.OutputPath)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(record.OutputPath)
}

func (h *Handler) lookupImport(c *gin.Context) (*model.ImportRecord, bool) {
	record, err := h.store.GetImport(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "导入记录不存在"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取导入记录失败"})
		return nil, false
	}
	return record, true
}

// contentDisposition 附件文件名：ASCII 回退 + RFC 5987 编码的原始文件名
func contentDisposition(filename string) string {
	fallback := make([]rune, 0, len(filename))
	for _, r := range filename {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		fallback = append(fallback, r)
	}
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", string(fallback), url.PathEscape(filename))
}
