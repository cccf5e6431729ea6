package api

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"timesheet/internal/exporter"
	"timesheet/internal/importer"
	"timesheet/internal/service/project"
)

// Import 上传模板与工时日志，写表并以 SSE 推送进度
// POST /api/import
//
// 表单字段：template（可选，缺省使用配置中的模板）、log（必填）、
// config（可选，缺省使用配置中的项目配置）、year / month（可选，覆盖模板设置页）
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	year, err := optionalInt(c.PostForm("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year 必须是整数"})
		return
	}
	month, err := optionalInt(c.PostForm("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month 必须是整数"})
		return
	}

	logFile := firstFile(form, "log")
	if logFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到工时日志文件"})
		return
	}

	workDir := filepath.Join(h.uploadDir, uuid.NewString())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
		return
	}
	// 清理上传文件
	defer os.RemoveAll(workDir)

	opts := importer.ImportOptions{
		LogName:           filepath.Base(logFile.Filename),
		ProjectConfigPath: h.projectConfigPath,
		Year:              year,
		Month:             month,
	}

	opts.LogPath, err = h.saveUpload(c, workDir, "log", logFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	if tpl := firstFile(form, "template"); tpl != nil {
		opts.TemplateName = filepath.Base(tpl.Filename)
		opts.TemplatePath, err = h.saveUpload(c, workDir, "template", tpl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
			return
		}
	} else if h.templatePath != "" {
		opts.TemplatePath = h.templatePath
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到模板文件"})
		return
	}

	if cfgFile := firstFile(form, "config"); cfgFile != nil {
		cfgPath, err := h.saveUpload(c, workDir, "config", cfgFile)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
			return
		}
		proj, err := project.Load(cfgPath)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("项目配置无效: %v", err)})
			return
		}
		opts.Project = proj
	}

	// 每次导入单独一个输出目录，文件名沿用 <模板名>_update<ext>
	outName := exporter.OutputPath(displayTemplateName(opts), h.settings.OutputSuffix)
	opts.OutputPath = filepath.Join(h.exportDir, uuid.NewString(), outName)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	coordinator := importer.NewCoordinator(h.store, h.settings, h.logger)
	for event := range coordinator.Import(opts) {
		eventData, err := json.Marshal(event)
		if err != nil {
			h.logger.Warn("marshal progress event", zap.String("type", event.Type), zap.Error(err))
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// saveUpload 以 "<字段名>-<文件名>" 保存，避免同名上传互相覆盖
func (h *Handler) saveUpload(c *gin.Context, dir, field string, fh *multipart.FileHeader) (string, error) {
	dst := filepath.Join(dir, field+"-"+filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func displayTemplateName(opts importer.ImportOptions) string {
	if opts.TemplateName != "" {
		return opts.TemplateName
	}
	return filepath.Base(opts.TemplatePath)
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
