package timesheet

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateFormat 与工时导出工具默认的 "%m/%d/%Y" 一致
const DefaultDateFormat = "mm/dd/YYYY"

type dateToken int

const (
	tokenYear dateToken = iota
	tokenMonth
	tokenDay
)

var dateTokens = map[string]dateToken{
	"YYYY": tokenYear,
	"yyyy": tokenYear,
	"%Y":   tokenYear,
	"mm":   tokenMonth,
	"MM":   tokenMonth,
	"%m":   tokenMonth,
	"dd":   tokenDay,
	"DD":   tokenDay,
	"%d":   tokenDay,
}

// 月、日使用不补零的布局，"3" 与 "03" 都能解析
var goLayoutTokens = map[dateToken]string{
	tokenYear:  "2006",
	tokenMonth: "1",
	tokenDay:   "2",
}

// 输出时补零，与 strftime 的 %m / %d 一致
var goPrintTokens = map[dateToken]string{
	tokenYear:  "2006",
	tokenMonth: "01",
	tokenDay:   "02",
}

// DateFormat 编译后的日期格式
type DateFormat struct {
	template string
	layout   string
	output   string
}

// ParseDateFormat 编译日期格式模板，如 "YYYY-mm-dd"、"mm/dd/YYYY"、"%m/%d/%Y"
func ParseDateFormat(template string) (*DateFormat, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		return nil, fmt.Errorf("%w: empty template", ErrDateFormat)
	}

	hasDash := strings.Contains(template, "-")
	hasSlash := strings.Contains(template, "/")
	var sep string
	switch {
	case hasDash && hasSlash:
		return nil, fmt.Errorf("%w: %q mixes separators", ErrDateFormat, template)
	case hasDash:
		sep = "-"
	case hasSlash:
		sep = "/"
	default:
		return nil, fmt.Errorf("%w: %q has no '-' or '/' separator", ErrDateFormat, template)
	}

	parts := strings.Split(template, sep)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q must have exactly 3 tokens", ErrDateFormat, template)
	}

	seen := make(map[dateToken]bool, 3)
	layout := make([]string, 0, 3)
	printLayout := make([]string, 0, 3)
	for _, part := range parts {
		tok, ok := dateTokens[part]
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized token %q in %q", ErrDateFormat, part, template)
		}
		if seen[tok] {
			return nil, fmt.Errorf("%w: duplicated token %q in %q", ErrDateFormat, part, template)
		}
		seen[tok] = true
		layout = append(layout, goLayoutTokens[tok])
		printLayout = append(printLayout, goPrintTokens[tok])
	}

	return &DateFormat{
		template: template,
		layout:   strings.Join(layout, sep),
		output:   strings.Join(printLayout, sep),
	}, nil
}

// Parse 按模板解析日期，返回 UTC 零点
func (f *DateFormat) Parse(value string) (time.Time, error) {
	t, err := time.Parse(f.layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match %s", value, f.template)
	}
	return t, nil
}

// Format 按模板格式化日期
func (f *DateFormat) Format(t time.Time) string {
	return t.Format(f.output)
}

// String 返回原始模板
func (f *DateFormat) String() string {
	return f.template
}
