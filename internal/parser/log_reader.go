package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"timesheet/internal/model"
)

var (
	// ErrEmptyLog 日志文件没有表头
	ErrEmptyLog = errors.New("time log is empty")
	// ErrMissingColumns 缺少必需列
	ErrMissingColumns = errors.New("time log is missing required columns")
)

// LogReader 工时日志读取器（CSV / XLSX）
type LogReader struct {
	recognizer *SheetRecognizer
}

// NewLogReader 创建读取器
func NewLogReader() *LogReader {
	return &LogReader{recognizer: NewSheetRecognizer()}
}

// IsWorkbook 是否按工作簿读取
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// ReadFile 按扩展名读取日志；未知扩展名按 CSV 处理
func (r *LogReader) ReadFile(path string) ([]model.LogRow, *ReadResult, error) {
	filename := filepath.Base(path)

	if IsWorkbook(path) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志工作簿失败: %w", err)
		}
		defer f.Close()
		return r.ReadWorkbook(f, filename)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	defer file.Close()
	return r.ReadCSV(file, filename)
}

// ReadCSV 读取 CSV，首行为表头
func (r *LogReader) ReadCSV(in io.Reader, filename string) ([]model.LogRow, *ReadResult, error) {
	cr := csv.NewReader(bufio.NewReader(in))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyLog
	}

	recognition := r.recognizer.Recognize(filename, records[0])
	if len(recognition.Missing) > 0 {
		return nil, nil, missingColumnsError(recognition)
	}

	rows, skipped := buildRows(records[1:], recognition.Mappings)
	return rows, &ReadResult{
		Filename:    filename,
		Header:      records[0],
		TotalRows:   len(rows),
		SkippedRows: skipped,
	}, nil
}

// ReadWorkbook 在工作簿中挑选表头最匹配的 sheet 读取
func (r *LogReader) ReadWorkbook(f *excelize.File, filename string) ([]model.LogRow, *ReadResult, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyLog
	}

	tables := make(map[string][][]string, len(sheets))
	results := make([]SheetRecognitionResult, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("读取 Sheet %q 失败: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		tables[sheet] = rows
		results = append(results, r.recognizer.Recognize(sheet, rows[0]))
	}

	best, ok := Best(results)
	if !ok {
		return nil, nil, ErrEmptyLog
	}
	if len(best.Missing) > 0 {
		return nil, nil, missingColumnsError(best)
	}

	table := tables[best.SheetName]
	rows, skipped := buildRows(table[1:], best.Mappings)
	return rows, &ReadResult{
		Filename:    filename,
		SheetName:   best.SheetName,
		Header:      table[0],
		TotalRows:   len(rows),
		SkippedRows: skipped,
	}, nil
}

// buildRows 把数据行转换为 LogRow；Line 为源文件行号（表头为第 1 行）
func buildRows(records [][]string, mappings map[LogField]FieldMapping) ([]model.LogRow, int) {
	rows := make([]model.LogRow, 0, len(records))
	skipped := 0
	for i, rec := range records {
		if isBlankRow(rec) {
			skipped++
			continue
		}
		rows = append(rows, model.LogRow{
			Line:  i + 2,
			User:  cellAt(rec, mappings[FieldUser].ColumnIndex),
			Date:  cellAt(rec, mappings[FieldDate].ColumnIndex),
			Hours: cellAt(rec, mappings[FieldHours].ColumnIndex),
			Issue: cellAt(rec, mappings[FieldIssue].ColumnIndex),
		})
	}
	return rows, skipped
}

func missingColumnsError(r SheetRecognitionResult) error {
	names := make([]string, 0, len(r.Missing))
	for _, f := range r.Missing {
		names = append(names, string(f))
	}
	return fmt.Errorf("%w: %s (sheet %q)", ErrMissingColumns, strings.Join(names, ", "), r.SheetName)
}
