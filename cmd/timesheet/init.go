package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timesheet/internal/config"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "生成默认 config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("配置文件已存在: %s（使用 --force 覆盖）", path)
			}

			cfg := config.DefaultConfig()
			if root.dataDir != "" {
				cfg.Data.DataDir = root.dataDir
			}
			if root.logLevel != "" {
				cfg.Log.Level = root.logLevel
			}
			if err := config.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("保存配置失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成配置: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "覆盖已有配置文件")
	return cmd
}
