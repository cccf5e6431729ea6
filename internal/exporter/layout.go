package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"timesheet/internal/config"
)

// Layout 模板布局：设置页中的年月单元格，以及成员 sheet 中各列位置
type Layout struct {
	SettingsSheet string
	YearCell      string
	MonthCell     string
	StartRow      int // 1 日所在行
	CodeColumn    string
	StartColumn   string
	EndColumn     string
	TaskColumn    string
}

// LayoutFromConfig 从应用配置构建布局
func LayoutFromConfig(cfg config.ExcelConfig) Layout {
	return Layout{
		SettingsSheet: cfg.SettingsSheet,
		YearCell:      cfg.YearCell,
		MonthCell:     cfg.MonthCell,
		StartRow:      cfg.StartRow,
		CodeColumn:    normalizeColumn(cfg.CodeColumn),
		StartColumn:   normalizeColumn(cfg.StartColumn),
		EndColumn:     normalizeColumn(cfg.EndColumn),
		TaskColumn:    normalizeColumn(cfg.TaskColumn),
	}
}

func normalizeColumn(col string) string {
	return strings.ToUpper(strings.TrimSpace(col))
}

// DefaultLayout 默认布局：設定!C5 年，設定!C7 月，第 10 行起 D/F/G/K 列
func DefaultLayout() Layout {
	return LayoutFromConfig(config.DefaultConfig().Excel)
}

// Validate 校验单元格与列名
func (l Layout) Validate() error {
	if strings.TrimSpace(l.SettingsSheet) == "" {
		return fmt.Errorf("settings sheet is empty")
	}
	for _, cell := range []string{l.YearCell, l.MonthCell} {
		if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
			return fmt.Errorf("invalid cell %q: %w", cell, err)
		}
	}
	for _, col := range []string{l.CodeColumn, l.StartColumn, l.EndColumn, l.TaskColumn} {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			return fmt.Errorf("invalid column %q: %w", col, err)
		}
	}
	if l.StartRow < 1 {
		return fmt.Errorf("invalid start row %d", l.StartRow)
	}
	return nil
}

func (l Layout) cell(column string, dayIndex int) string {
	return fmt.Sprintf("%s%d", column, l.StartRow+dayIndex)
}
