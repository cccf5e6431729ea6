package timesheet

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDate 目标年月非法
	ErrInvalidDate = errors.New("invalid date")
	// ErrDateFormat 日期格式模板含无法识别的 token
	ErrDateFormat = errors.New("invalid date format")
	// ErrNoMembers 成员列表为空
	ErrNoMembers = errors.New("no members configured")
	// ErrNoMembersInLog 配置中的成员均未出现在工时日志中
	ErrNoMembersInLog = errors.New("no configured member found in time log")
	// ErrDayOutOfRange 记录日期不在目标月份内
	ErrDayOutOfRange = errors.New("entry date out of target month")
	// ErrUnknownMember 记录的用户没有对应的月表
	ErrUnknownMember = errors.New("unknown member")
)

// DayOutOfRangeError 记录日期超出目标月份
type DayOutOfRangeError struct {
	Date  time.Time
	Year  int
	Month int
}

func (e *DayOutOfRangeError) Error() string {
	return fmt.Sprintf("entry date %s is outside %04d-%02d", e.Date.Format("2006-01-02"), e.Year, e.Month)
}

func (e *DayOutOfRangeError) Unwrap() error {
	return ErrDayOutOfRange
}
