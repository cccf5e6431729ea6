package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"timesheet/internal/model"
	"timesheet/internal/service/timesheet"
)

var memberHeader = map[string]string{
	"code":  "区分",
	"start": "開始",
	"end":   "終了",
	"tasks": "チケット",
}

// NewBlankTemplate 生成一个无样式的模板骨架：设置页写入年月，每个成员一个 sheet，
// 表头位于 1 日所在行的上一行，A 列为日期序号
func NewBlankTemplate(layout Layout, members []model.Member, year, month int) (*excelize.File, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidPeriod, year, month)
	}

	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", layout.SettingsSheet); err != nil {
		return nil, err
	}
	if err := wb.SetCellValue(layout.SettingsSheet, layout.YearCell, year); err != nil {
		return nil, err
	}
	if err := wb.SetCellValue(layout.SettingsSheet, layout.MonthCell, month); err != nil {
		return nil, err
	}

	days := timesheet.DaysInMonth(year, month)
	for _, m := range members {
		if _, err := wb.NewSheet(m.Fullname); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", m.Fullname, err)
		}
		for d := 1; d <= days; d++ {
			if err := wb.SetCellValue(m.Fullname, fmt.Sprintf("A%d", layout.StartRow+d-1), d); err != nil {
				return nil, err
			}
		}
		if layout.StartRow > 1 {
			header := layout.StartRow - 1
			cells := map[string]string{
				layout.CodeColumn:  memberHeader["code"],
				layout.StartColumn: memberHeader["start"],
				layout.EndColumn:   memberHeader["end"],
				layout.TaskColumn:  memberHeader["tasks"],
			}
			for col, title := range cells {
				if err := wb.SetCellValue(m.Fullname, fmt.Sprintf("%s%d", col, header), title); err != nil {
					return nil, err
				}
			}
		}
	}

	wb.SetActiveSheet(0)
	return wb, nil
}
