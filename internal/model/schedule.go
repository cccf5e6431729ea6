package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayCode 当日标记：空=未出勤，"1"=出勤，其他=假期类型
type DayCode string

const (
	CodeNone   DayCode = ""
	CodeWorked DayCode = "1"
)

// IsSet 是否已有标记
func (c DayCode) IsSet() bool {
	return c != CodeNone
}

// CellValue 写入单元格的值：出勤写数字 1，假期写类型文本，未设置写空
func (c DayCode) CellValue() any {
	switch c {
	case CodeNone:
		return nil
	case CodeWorked:
		return 1
	default:
		return string(c)
	}
}

// Clock 一天内的时刻，单位为分钟（允许超过 24:00，表示累计工时溢出到次日）
type Clock int

// ParseClock 解析 "HH:MM"
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q: bad minute", s)
	}
	return Clock(h*60 + m), nil
}

// AddHours 增加若干小时（按分钟四舍五入）
func (c Clock) AddHours(hours float64) Clock {
	return c + Clock(roundMinutes(hours))
}

// String 格式化为 "HH:MM"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func roundMinutes(hours float64) int {
	m := hours * 60
	if m < 0 {
		return int(m - 0.5)
	}
	return int(m + 0.5)
}

// DailyRecord 某成员某一天的考勤记录
type DailyRecord struct {
	Date  time.Time `json:"date"`
	Code  DayCode   `json:"code"`
	Start *Clock    `json:"start"`
	End   *Clock    `json:"end"`
	Tasks []string  `json:"tasks"`
}

// Worked 当日是否有工时或假期标记
func (d *DailyRecord) Worked() bool {
	return d.Code.IsSet()
}

// MonthSchedule 某成员一个月的逐日记录，Days[i] 对应 i+1 日
type MonthSchedule struct {
	Nickname string        `json:"nickname"`
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Days     []DailyRecord `json:"days"`
}

// Contains 日期是否属于本月
func (s *MonthSchedule) Contains(date time.Time) bool {
	return date.Year() == s.Year && int(date.Month()) == s.Month &&
		date.Day() >= 1 && date.Day() <= len(s.Days)
}
