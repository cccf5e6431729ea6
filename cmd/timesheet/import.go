package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"timesheet/internal/config"
	"timesheet/internal/importer"
	"timesheet/internal/model"
	"timesheet/internal/store"
)

type importFlags struct {
	template      string
	log           string
	projectConfig string
	year          int
	month         int
	out           string
	noHistory     bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "导入工时日志并写入模板",
		Long: `读取工时日志（CSV 或 XLSX），按项目配置汇总后写入模板工作簿，
结果另存为 <模板名>_update<扩展名>（可用 --out 指定）。

目标年月默认读取模板设置页（設定!C5 / 設定!C7），可用 --year / --month 覆盖。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			settings, err := importer.SettingsFromConfig(a.cfg)
			if err != nil {
				return err
			}

			template := flags.template
			if template == "" {
				template = a.cfg.Excel.TemplatePath
			}
			if template == "" {
				return fmt.Errorf("未指定模板：使用 --template 或在 config.toml 中配置 excel.template_path")
			}
			projectConfig := flags.projectConfig
			if projectConfig == "" {
				projectConfig = a.cfg.Project.ConfigPath
			}

			var st *store.Store
			if !flags.noHistory {
				st, err = openStore(a.cfg)
				if err != nil {
					return err
				}
				defer st.Close()
			}

			out := cmd.OutOrStdout()
			coordinator := importer.NewCoordinator(st, settings, a.logger)
			summary, err := coordinator.Run(importer.ImportOptions{
				TemplatePath:      template,
				LogPath:           flags.log,
				ProjectConfigPath: projectConfig,
				Year:              flags.year,
				Month:             flags.month,
				OutputPath:        flags.out,
			}, func(evt importer.ProgressEvent) {
				switch evt.Type {
				case "info", "diagnostic", "member_done":
					fmt.Fprintf(out, "  %s\n", evt.Message)
				}
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "完成: %d年%d月，%d 名成员，写入 %d 天，%d 行诊断\n",
				summary.Year, summary.Month, len(summary.Members), summary.WrittenDays, len(summary.Diagnostics))
			fmt.Fprintf(out, "输出: %s\n", summary.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.template, "template", "", "模板工作簿（默认 excel.template_path）")
	cmd.Flags().StringVar(&flags.log, "log", "", "工时日志 CSV / XLSX")
	cmd.Flags().StringVar(&flags.projectConfig, "project", "", "项目配置 json/yaml（默认 project.config_path）")
	cmd.Flags().IntVar(&flags.year, "year", 0, "覆盖目标年份")
	cmd.Flags().IntVar(&flags.month, "month", 0, "覆盖目标月份")
	cmd.Flags().StringVar(&flags.out, "out", "", "输出路径")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "不记录导入历史")
	_ = cmd.MarkFlagRequired("log")
	return cmd
}

func openStore(cfg *config.AppConfig) (*store.Store, error) {
	if _, err := config.EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	return store.New(config.GetDataPath(cfg, "", config.DatabaseFile))
}

func statusLabel(s model.ImportStatus) string {
	switch s {
	case model.ImportSucceeded:
		return "成功"
	case model.ImportFailed:
		return "失败"
	default:
		return "处理中"
	}
}
