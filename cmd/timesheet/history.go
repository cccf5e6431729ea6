package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "查看导入历史",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			st, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.ListImports(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "暂无导入记录")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\t时间\t模板\t日志\t月份\t状态\t写入天数\t诊断\t输出/错误")
			for _, r := range records {
				detail := r.OutputPath
				if r.ErrorMessage != "" {
					detail = r.ErrorMessage
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d-%02d\t%s\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TemplateName, r.LogName,
					r.Year, r.Month, statusLabel(r.Status), r.WrittenDays, r.ErrorRows, detail)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "显示条数")
	return cmd
}
