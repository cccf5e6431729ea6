package timesheet

import (
	"fmt"
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"

	"timesheet/internal/model"
)

var ticketPattern = regexp.MustCompile(`#\d+`)

// MaxRowHours 单行工时上限
const MaxRowHours = 24

// ExtractTicketID 提取问题描述中的第一个 "#数字" 工单号，无则返回空串
func ExtractTicketID(issue string) string {
	return ticketPattern.FindString(issue)
}

// RowError 单行解析失败
type RowError struct {
	Line int
	User string
	Kind model.DiagnosticKind
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %s: %v", e.Line, e.User, e.Kind, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Diagnostic 转换为诊断记录
func (e *RowError) Diagnostic() model.Diagnostic {
	return model.Diagnostic{
		Line:    e.Line,
		User:    e.User,
		Kind:    e.Kind,
		Message: e.Err.Error(),
	}
}

// Normalizer 把原始日志行解析为 LogEntry
type Normalizer struct {
	format *DateFormat
	known  map[string]struct{}
	report func(*RowError)
}

// NewNormalizer 创建解析器；report 接收被跳过的坏行，可为 nil
func NewNormalizer(format *DateFormat, nicknames []string, report func(*RowError)) *Normalizer {
	known := make(map[string]struct{}, len(nicknames))
	for _, n := range nicknames {
		known[n] = struct{}{}
	}
	return &Normalizer{
		format: format,
		known:  known,
		report: report,
	}
}

// Entries 按输入的逆序惰性产出记录。
// 导出文件通常为新记录在前，逆序后同一天的记录按时间先后到达，
// 首条记录决定开始时间，后续记录依次累加结束时间。
func (n *Normalizer) Entries(rows []model.LogRow) iter.Seq[model.LogEntry] {
	return func(yield func(model.LogEntry) bool) {
		for i := len(rows) - 1; i >= 0; i-- {
			entry, ok, err := n.Normalize(rows[i])
			if err != nil {
				if n.report != nil {
					n.report(err)
				}
				continue
			}
			if !ok {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// Normalize 解析单行；未知用户返回 ok=false 且无错误
func (n *Normalizer) Normalize(row model.LogRow) (model.LogEntry, bool, *RowError) {
	user := strings.TrimSpace(row.User)
	if _, ok := n.known[user]; !ok {
		return model.LogEntry{}, false, nil
	}

	date, err := n.format.Parse(row.Date)
	if err != nil {
		return model.LogEntry{}, false, &RowError{Line: row.Line, User: user, Kind: model.DiagnosticBadDate, Err: err}
	}

	hours, err := parseHours(row.Hours)
	if err != nil {
		return model.LogEntry{}, false, &RowError{Line: row.Line, User: user, Kind: model.DiagnosticBadHours, Err: err}
	}

	return model.LogEntry{
		Line:      row.Line,
		User:      user,
		Date:      date,
		Hours:     hours,
		IssueText: row.Issue,
		TicketID:  ExtractTicketID(row.Issue),
	}, true, nil
}

func parseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("hours is empty")
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("hours %q is not numeric", s)
	}
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("hours %q is not a finite number", s)
	}
	if h < 0 {
		return 0, fmt.Errorf("hours %q is negative", s)
	}
	if h > MaxRowHours {
		return 0, fmt.Errorf("hours %q exceeds %d", s, MaxRowHours)
	}
	return h, nil
}
