package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"timesheet/internal/exporter"
	"timesheet/internal/service/project"
)

func newTemplateCmd(root *rootOptions) *cobra.Command {
	var (
		projectConfig string
		year, month   int
		out           string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "按项目成员生成空白模板",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			if projectConfig == "" {
				projectConfig = a.cfg.Project.ConfigPath
			}
			proj, err := project.Load(projectConfig)
			if err != nil {
				return err
			}

			layout := exporter.LayoutFromConfig(a.cfg.Excel)
			if err := layout.Validate(); err != nil {
				return err
			}
			wb, err := exporter.NewBlankTemplate(layout, proj.Members, year, month)
			if err != nil {
				return err
			}
			defer wb.Close()

			if err := wb.SaveAs(out); err != nil {
				return fmt.Errorf("保存模板失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成模板: %s（%d 名成员，%d年%d月）\n", out, len(proj.Members), year, month)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectConfig, "project", "", "项目配置 json/yaml（默认 project.config_path）")
	cmd.Flags().IntVar(&year, "year", 0, "年份")
	cmd.Flags().IntVar(&month, "month", 0, "月份")
	cmd.Flags().StringVar(&out, "out", "", "输出路径")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
