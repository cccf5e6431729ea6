package timesheet

import (
	"fmt"
	"time"

	"timesheet/internal/model"
)

// DaysInMonth 返回某年某月的天数（公历，含闰年规则）
func DaysInMonth(year, month int) int {
	// 下月第 0 天即本月最后一天
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d not in 1-12", ErrInvalidDate, month)
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d not in 1-9999", ErrInvalidDate, year)
	}
	return nil
}

// NewMonthSchedule 创建某成员某月的空白月表
func NewMonthSchedule(nickname string, year, month int) (*model.MonthSchedule, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	n := DaysInMonth(year, month)
	days := make([]model.DailyRecord, n)
	for i := range days {
		days[i] = model.DailyRecord{
			Date: time.Date(year, time.Month(month), i+1, 0, 0, 0, 0, time.UTC),
		}
	}

	return &model.MonthSchedule{
		Nickname: nickname,
		Year:     year,
		Month:    month,
		Days:     days,
	}, nil
}

// InitMonthSchedules 为每个成员创建空白月表
func InitMonthSchedules(nicknames []string, year, month int) (map[string]*model.MonthSchedule, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	schedules := make(map[string]*model.MonthSchedule, len(nicknames))
	for _, nickname := range nicknames {
		s, err := NewMonthSchedule(nickname, year, month)
		if err != nil {
			return nil, err
		}
		schedules[nickname] = s
	}
	return schedules, nil
}

// dayOf 按 (年, 月, 日) 查找当日记录，越界返回 DayOutOfRangeError
func dayOf(s *model.MonthSchedule, date time.Time) (*model.DailyRecord, error) {
	if !s.Contains(date) {
		return nil, &DayOutOfRangeError{Date: date, Year: s.Year, Month: s.Month}
	}
	return &s.Days[date.Day()-1], nil
}
