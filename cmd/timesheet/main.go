package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timesheet/internal/config"
	"timesheet/internal/logging"
)

// rootOptions 全局参数
type rootOptions struct {
	configPath string
	dataDir    string
	devMode    bool
	logLevel   string
}

// app 命令运行时依赖
type app struct {
	cfg    *config.AppConfig
	info   config.LoadConfigInfo
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "timesheet",
		Short: "把工时日志汇总为每人每天的考勤记录并写入模板工作簿",
		Long: `timesheet 读取工时导出（User/Date/Hours/Issue），按项目配置的成员与假期
生成每位成员当月每天的出勤代码、上下班时间和工单号，写入模板工作簿。

子命令：
  serve     启动 Web 界面
  import    命令行导入
  history   查看导入历史
  template  生成空白模板
  init      生成默认配置文件`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config.toml 路径（默认可执行文件同目录）")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "数据目录（覆盖配置文件）")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", false, "开发模式")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "日志级别（覆盖配置文件）")

	root.AddCommand(
		newServeCmd(opts),
		newImportCmd(opts),
		newHistoryCmd(opts),
		newTemplateCmd(opts),
		newInitCmd(opts),
	)
	return root
}

// loadApp 加载配置并创建日志
func loadApp(opts *rootOptions) (*app, error) {
	cfg, info, err := config.LoadConfigWithInfo(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.New(cfg.Log, cfg.Server.DevMode)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, info: info, logger: logger}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
