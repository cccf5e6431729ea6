package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timesheet/internal/service/project"
	"timesheet/internal/service/timesheet"
)

// ProjectResponse 项目配置响应
type ProjectResponse struct {
	Path   string              `json:"path"`
	Config *project.FileConfig `json:"config"`
}

// GetProject 读取项目配置
// GET /api/project
func (h *Handler) GetProject(c *gin.Context) {
	proj, err := project.Load(h.projectConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "项目配置不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	fc, err := project.Decompile(proj)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ProjectResponse{Path: h.projectConfigPath, Config: fc})
}

// UpdateProject 校验并保存项目配置
// PUT /api/project
func (h *Handler) UpdateProject(c *gin.Context) {
	var fc project.FileConfig
	if err := c.ShouldBindJSON(&fc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
		return
	}

	if _, err := project.Save(h.projectConfigPath, &fc); err != nil {
		if isConfigError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("save project config", zap.String("path", h.projectConfigPath), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存项目配置失败"})
		return
	}

	h.logger.Info("project config saved", zap.String("path", h.projectConfigPath), zap.Int("members", len(fc.Members)))
	c.JSON(http.StatusOK, ProjectResponse{Path: h.projectConfigPath, Config: &fc})
}

func isConfigError(err error) bool {
	for _, target := range []error{
		project.ErrInvalidConfig,
		project.ErrMissingMembers,
		project.ErrDuplicateNickname,
		timesheet.ErrDateFormat,
		timesheet.ErrNoMembers,
		timesheet.ErrDuplicateMember,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
