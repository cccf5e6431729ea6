package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"timesheet/internal/config"
	"timesheet/internal/exporter"
	"timesheet/internal/model"
	"timesheet/internal/parser"
	"timesheet/internal/service/project"
	"timesheet/internal/service/timesheet"
	"timesheet/internal/store"
)

// ErrNoProject 未提供项目配置
var ErrNoProject = errors.New("project config is required")

// Settings 导入使用的布局与计算规则
type Settings struct {
	Layout       exporter.Layout
	Rules        timesheet.Rules
	Project      timesheet.ProjectOptions
	OutputSuffix string
}

// SettingsFromConfig 从应用配置构建导入设置
func SettingsFromConfig(cfg *config.AppConfig) (Settings, error) {
	layout := exporter.LayoutFromConfig(cfg.Excel)
	if err := layout.Validate(); err != nil {
		return Settings{}, fmt.Errorf("excel 布局配置错误: %w", err)
	}

	rules := timesheet.DefaultRules()
	if cfg.Schedule.BaselineStart != "" {
		start, err := model.ParseClock(cfg.Schedule.BaselineStart)
		if err != nil {
			return Settings{}, fmt.Errorf("schedule.baseline_start: %w", err)
		}
		rules.BaselineStart = start
	}
	if cfg.Schedule.BreakHours < 0 {
		return Settings{}, fmt.Errorf("schedule.break_hours must be >= 0, got %v", cfg.Schedule.BreakHours)
	}
	rules.BreakHours = cfg.Schedule.BreakHours

	suffix := cfg.Excel.OutputSuffix
	if suffix == "" {
		suffix = config.DefaultConfig().Excel.OutputSuffix
	}

	return Settings{
		Layout:       layout,
		Rules:        rules,
		Project:      timesheet.ProjectOptions{WriteDaysWithoutTasks: cfg.Schedule.WriteDaysWithoutTasks},
		OutputSuffix: suffix,
	}, nil
}

// DefaultSettings 默认设置
func DefaultSettings() Settings {
	s, _ := SettingsFromConfig(config.DefaultConfig())
	return s
}

// Coordinator 导入协调器
type Coordinator struct {
	store    *store.Store
	settings Settings
	reader   *parser.LogReader
	logger   *zap.Logger
}

// NewCoordinator 创建导入协调器；store 为 nil 时不记录导入历史
func NewCoordinator(st *store.Store, settings Settings, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:    st,
		settings: settings,
		reader:   parser.NewLogReader(),
		logger:   logger,
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	TemplatePath      string
	LogPath           string
	TemplateName      string         // 展示用文件名，为空时取路径的文件名
	LogName           string         // 同上
	ProjectConfigPath string         // 项目配置文件（json/yaml）
	Project           *model.Project // 已加载的项目配置，优先于 ProjectConfigPath
	Year              int            // 非 0 时覆盖设置页中的年份
	Month             int            // 非 0 时覆盖设置页中的月份
	OutputPath        string         // 为空时输出到模板同目录的 <name>_update<ext>
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/diagnostic/member_done/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Import 执行导入，返回进度通道。调用方需读完通道。
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		_, _ = c.Run(opts, func(evt ProgressEvent) {
			progressChan <- evt
		})
	}()

	return progressChan
}

// Run 同步执行导入；emit 可为 nil
func (c *Coordinator) Run(opts ImportOptions, emit func(ProgressEvent)) (*model.ImportSummary, error) {
	startTime := time.Now()
	importID := uuid.NewString()

	templateName := displayName(opts.TemplateName, opts.TemplatePath)
	logName := displayName(opts.LogName, opts.LogPath)

	if c.store != nil {
		if err := c.store.CreateImport(importID, templateName, logName); err != nil {
			err = fmt.Errorf("记录导入失败: %w", err)
			c.sendProgress(emit, ProgressEvent{Type: "error", Message: err.Error(), Timestamp: time.Now()})
			return nil, err
		}
	}

	c.sendProgress(emit, ProgressEvent{
		Type:    "start",
		Message: "开始导入工时日志",
		Data: map[string]string{
			"importId": importID,
			"template": templateName,
			"log":      logName,
		},
		Timestamp: time.Now(),
	})

	summary, err := c.doImport(importID, opts, emit)
	if err != nil {
		c.logger.Error("import failed", zap.String("import_id", importID), zap.Error(err))
		if c.store != nil {
			if ferr := c.store.FailImport(importID, err.Error()); ferr != nil {
				c.logger.Warn("record failed import", zap.String("import_id", importID), zap.Error(ferr))
			}
		}
		c.sendProgress(emit, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("导入失败: %v", err),
			Data:      map[string]string{"importId": importID},
			Timestamp: time.Now(),
		})
		return nil, err
	}
	summary.Duration = time.Since(startTime)

	if c.store != nil {
		if err := c.store.CompleteImport(summary); err != nil {
			c.logger.Warn("record import summary", zap.String("import_id", importID), zap.Error(err))
		}
		if err := c.store.SetLastPeriod(summary.Year, summary.Month); err != nil {
			c.logger.Warn("record last period", zap.Error(err))
		}
	}

	c.logger.Info("import done",
		zap.String("import_id", importID),
		zap.String("output", summary.OutputPath),
		zap.Int("written_days", summary.WrittenDays),
		zap.Int("diagnostics", len(summary.Diagnostics)),
		zap.Duration("duration", summary.Duration),
	)

	c.sendProgress(emit, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("导入完成: %d 名成员，写入 %d 天", len(summary.Members), summary.WrittenDays),
		Data:      summary,
		Timestamp: time.Now(),
	})
	return summary, nil
}

// doImport 读取配置与日志 → 聚合 → 写入模板 → 另存
func (c *Coordinator) doImport(importID string, opts ImportOptions, emit func(ProgressEvent)) (*model.ImportSummary, error) {
	proj, err := c.loadProject(opts)
	if err != nil {
		return nil, err
	}

	rows, readResult, err := c.reader.ReadFile(opts.LogPath)
	if err != nil {
		return nil, fmt.Errorf("读取工时日志失败: %w", err)
	}
	c.sendProgress(emit, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("读取工时日志 %d 行", readResult.TotalRows),
		Data: map[string]interface{}{
			"sheet_name":   readResult.SheetName,
			"total_rows":   readResult.TotalRows,
			"skipped_rows": readResult.SkippedRows,
		},
		Timestamp: time.Now(),
	})

	file, err := exporter.OpenTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	year, month, err := c.resolvePeriod(file, opts)
	if err != nil {
		return nil, err
	}
	c.sendProgress(emit, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("目标月份: %d年%d月", year, month),
		Data: map[string]int{
			"year":  year,
			"month": month,
		},
		Timestamp: time.Now(),
	})

	engine := timesheet.NewEngine(c.settings.Rules, c.logger.With(zap.String("import_id", importID)))
	result, err := engine.Build(timesheet.Input{
		Members:    proj.Members,
		Year:       year,
		Month:      month,
		Rows:       rows,
		Vacations:  proj.Vacations,
		DateFormat: proj.DateFormat,
	})
	if err != nil {
		return nil, err
	}

	for _, d := range result.Diagnostics {
		c.sendProgress(emit, ProgressEvent{
			Type:      "diagnostic",
			Message:   fmt.Sprintf("第 %d 行 (%s): %s", d.Line, d.User, d.Message),
			Data:      d,
			Timestamp: time.Now(),
		})
	}

	items := make([]exporter.MemberProjection, 0, len(result.Members))
	for _, m := range result.Members {
		items = append(items, exporter.MemberProjection{
			Member:     m,
			Projection: timesheet.ProjectForWrite(result.Schedules[m.Nickname], c.settings.Project),
		})
	}

	writer := exporter.NewWriter(file, c.settings.Layout)
	written, err := writer.WriteAll(items, func(p exporter.ProgressEvent) {
		c.logger.Debug("write progress", zap.Int("percent", p.Percent), zap.String("stage", p.Stage), zap.String("sheet", p.Sheet))
	})
	if err != nil {
		return nil, err
	}

	summary := &model.ImportSummary{
		ImportID:    importID,
		Year:        year,
		Month:       month,
		TotalRows:   result.TotalRows,
		Members:     make([]string, 0, len(result.Members)),
		Diagnostics: result.Diagnostics,
	}
	for _, m := range result.Members {
		days := written[m.Fullname]
		summary.Members = append(summary.Members, m.Fullname)
		summary.WrittenDays += days
		c.sendProgress(emit, ProgressEvent{
			Type:    "member_done",
			Message: fmt.Sprintf("%s 写入 %d 天", m.Fullname, days),
			Data: map[string]interface{}{
				"fullname":     m.Fullname,
				"nickname":     m.Nickname,
				"written_days": days,
			},
			Timestamp: time.Now(),
		})
	}

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = exporter.OutputPath(opts.TemplatePath, c.settings.OutputSuffix)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := file.SaveAs(outPath); err != nil {
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}
	summary.OutputPath = outPath

	return summary, nil
}

func (c *Coordinator) loadProject(opts ImportOptions) (*model.Project, error) {
	if opts.Project != nil {
		return opts.Project, nil
	}
	if opts.ProjectConfigPath == "" {
		return nil, ErrNoProject
	}
	proj, err := project.Load(opts.ProjectConfigPath)
	if err != nil {
		return nil, fmt.Errorf("加载项目配置失败: %w", err)
	}
	return proj, nil
}

// resolvePeriod 显式指定的年月优先，缺失部分从设置页读取
func (c *Coordinator) resolvePeriod(file *excelize.File, opts ImportOptions) (int, int, error) {
	if opts.Year != 0 && opts.Month != 0 {
		return opts.Year, opts.Month, nil
	}
	year, month, err := exporter.ReadPeriod(file, c.settings.Layout)
	if err != nil {
		return 0, 0, err
	}
	if opts.Year != 0 {
		year = opts.Year
	}
	if opts.Month != 0 {
		month = opts.Month
	}
	return year, month, nil
}

func displayName(name, path string) string {
	if name != "" {
		return name
	}
	return filepath.Base(path)
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(emit func(ProgressEvent), event ProgressEvent) {
	if emit == nil {
		return
	}
	emit(event)
}
