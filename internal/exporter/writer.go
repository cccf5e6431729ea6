package exporter

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"timesheet/internal/model"
	"timesheet/internal/service/timesheet"
)

var (
	// ErrSheetNotFound 模板中缺少成员对应的 sheet
	ErrSheetNotFound = errors.New("sheet does not exist in workbook")
	// ErrInvalidPeriod 设置页中的年月无法识别
	ErrInvalidPeriod = errors.New("invalid target period in settings sheet")
)

// OpenTemplate 从路径打开模板
func OpenTemplate(path string) (*excelize.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("template path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开模板失败: %w", err)
	}
	return f, nil
}

// OutputPath 输出文件路径：与模板同目录，文件名追加后缀（report.xlsm -> report_update.xlsm）
func OutputPath(templatePath, suffix string) string {
	ext := filepath.Ext(templatePath)
	return strings.TrimSuffix(templatePath, ext) + suffix + ext
}

// ReadPeriod 从设置页读取目标年月
func ReadPeriod(f *excelize.File, layout Layout) (year, month int, err error) {
	if idx, err := f.GetSheetIndex(layout.SettingsSheet); err != nil || idx < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrSheetNotFound, layout.SettingsSheet)
	}

	year, err = readIntCell(f, layout.SettingsSheet, layout.YearCell)
	if err != nil {
		return 0, 0, err
	}
	month, err = readIntCell(f, layout.SettingsSheet, layout.MonthCell)
	if err != nil {
		return 0, 0, err
	}
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: %d-%d", ErrInvalidPeriod, year, month)
	}
	return year, month, nil
}

func readIntCell(f *excelize.File, sheet, cell string) (int, error) {
	raw, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return 0, fmt.Errorf("读取 %s!%s 失败: %w", sheet, cell, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s!%s=%q", ErrInvalidPeriod, sheet, cell, raw)
	}
	return int(v), nil
}

// Writer 把投影结果写入模板中各成员的 sheet
type Writer struct {
	f      *excelize.File
	layout Layout
}

// NewWriter 创建写入器
func NewWriter(f *excelize.File, layout Layout) *Writer {
	return &Writer{f: f, layout: layout}
}

// CheckSheets 确认每个成员都有以全名命名的 sheet
func (w *Writer) CheckSheets(members []model.Member) error {
	for _, m := range members {
		if idx, err := w.f.GetSheetIndex(m.Fullname); err != nil || idx < 0 {
			return fmt.Errorf("%w: %q", ErrSheetNotFound, m.Fullname)
		}
	}
	return nil
}

// WriteMember 只写入掩码为 true 的行，其余行保持模板原样；返回写入的天数
func (w *Writer) WriteMember(sheet string, p timesheet.Projection) (int, error) {
	written := 0
	for i := 0; i < p.Len(); i++ {
		if !p.WriteMask[i] {
			continue
		}
		cells := []struct {
			column string
			value  any
		}{
			{w.layout.CodeColumn, p.Code[i]},
			{w.layout.StartColumn, p.Start[i]},
			{w.layout.EndColumn, p.End[i]},
			{w.layout.TaskColumn, p.Tasks[i]},
		}
		for _, c := range cells {
			if err := w.f.SetCellValue(sheet, w.layout.cell(c.column, i), c.value); err != nil {
				return written, fmt.Errorf("写入 %s!%s 失败: %w", sheet, w.layout.cell(c.column, i), err)
			}
		}
		written++
	}
	return written, nil
}

// MemberProjection 某成员的写表数据
type MemberProjection struct {
	Member     model.Member
	Projection timesheet.Projection
}

// WriteAll 依次写入所有成员，返回每个成员写入的天数
func (w *Writer) WriteAll(items []MemberProjection, progress func(ProgressEvent)) (map[string]int, error) {
	members := make([]model.Member, 0, len(items))
	for _, it := range items {
		members = append(members, it.Member)
	}
	if err := w.CheckSheets(members); err != nil {
		return nil, err
	}

	written := make(map[string]int, len(items))
	for i, it := range items {
		reportProgress(progress, i*100/len(items), "writing", it.Member.Fullname)
		n, err := w.WriteMember(it.Member.Fullname, it.Projection)
		if err != nil {
			return nil, err
		}
		written[it.Member.Fullname] = n
	}
	reportProgress(progress, 100, "done", "")
	return written, nil
}
