package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Project  ProjectConfig  `toml:"project"`
	Excel    ExcelConfig    `toml:"excel"`
	Schedule ScheduleConfig `toml:"schedule"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ProjectConfig 项目配置文件位置（成员、假期、日期格式）
type ProjectConfig struct {
	ConfigPath string `toml:"config_path"`
}

// ExcelConfig 模板工作簿布局
type ExcelConfig struct {
	TemplatePath  string `toml:"template_path"`
	SettingsSheet string `toml:"settings_sheet"` // 年月所在的设置页
	YearCell      string `toml:"year_cell"`
	MonthCell     string `toml:"month_cell"`
	StartRow      int    `toml:"start_row"` // 1 日所在行
	CodeColumn    string `toml:"code_column"`
	StartColumn   string `toml:"start_column"`
	EndColumn     string `toml:"end_column"`
	TaskColumn    string `toml:"task_column"`
	OutputSuffix  string `toml:"output_suffix"`
}

// ScheduleConfig 考勤计算规则
type ScheduleConfig struct {
	BaselineStart         string  `toml:"baseline_start"`
	BreakHours            float64 `toml:"break_hours"`
	WriteDaysWithoutTasks bool    `toml:"write_days_without_tasks"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
	Path          string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Project: ProjectConfig{
			ConfigPath: "config.json",
		},
		Excel: ExcelConfig{
			TemplatePath:  "",
			SettingsSheet: "設定",
			YearCell:      "C5",
			MonthCell:     "C7",
			StartRow:      10,
			CodeColumn:    "D",
			StartColumn:   "F",
			EndColumn:     "G",
			TaskColumn:    "K",
			OutputSuffix:  "_update",
		},
		Schedule: ScheduleConfig{
			BaselineStart:         "09:00",
			BreakHours:            1,
			WriteDaysWithoutTasks: false,
		},
		Log: LogConfig{
			Level: "info",
			File:  "app.log",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息；path 为空时使用默认位置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			applyEnvOverrides(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnvOverrides(config)
	return config, info, nil
}

// 环境变量覆盖（用于 E2E / 本地运行）
func applyEnvOverrides(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("TIMESHEET_TEMPLATE_PATH")); v != "" {
		config.Excel.TemplatePath = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMESHEET_PROJECT_CONFIG")); v != "" {
		config.Project.ConfigPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMESHEET_LOG_LEVEL")); v != "" {
		config.Log.Level = v
	}
}

// SaveConfig 保存配置到 path
func SaveConfig(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir 确保数据目录存在（相对路径基于可执行文件目录）
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := resolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DatabaseFile 数据目录下的 SQLite 文件名
const DatabaseFile = "timesheet.db"

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(resolveDataDir(config), subdir, filename)
}

func resolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil || exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}
