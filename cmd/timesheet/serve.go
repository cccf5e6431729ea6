package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timesheet/internal/server"
	"timesheet/internal/util"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port      int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 Web 界面",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			// config.toml 显式配置的端口优先
			if port > 0 && !a.info.PortSpecified {
				a.cfg.Server.Port = port
			}

			srv, err := server.NewServer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			if year, month, err := srv.GetStore().GetLastPeriod(); err == nil {
				a.logger.Info("last imported period", zap.Int("year", year), zap.Int("month", month))
			}

			addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
			url := util.LocalURL(a.cfg.Server.Port)

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server listening", zap.Int("port", a.cfg.Server.Port))
				errCh <- srv.Run(addr)
			}()

			if !a.cfg.Server.DevMode && !noBrowser {
				if err := util.OpenBrowserWithFallback(url); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "无法自动打开浏览器，请手动访问: %s\n", url)
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "请访问 %s\n", url)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "按 Ctrl+C 停止服务...")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return fmt.Errorf("服务启动失败: %w", err)
			case <-quit:
				a.logger.Info("server stopping")
				return nil
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服务端口（仅当 config.toml 未显式配置 port 时生效）")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")
	return cmd
}
