package timesheet

import (
	"fmt"

	"timesheet/internal/model"
)

const (
	// DefaultBaselineStart 每天的固定上班时间 09:00
	DefaultBaselineStart = model.Clock(9 * 60)
	// DefaultBreakHours 每天首条记录额外计入的午休时长
	DefaultBreakHours = 1.0
)

// Rules 时间计算规则
type Rules struct {
	BaselineStart model.Clock
	BreakHours    float64
}

// DefaultRules 默认规则：09:00 上班，午休 1 小时
func DefaultRules() Rules {
	return Rules{
		BaselineStart: DefaultBaselineStart,
		BreakHours:    DefaultBreakHours,
	}
}

// Aggregator 把记录逐条折叠进月表。同一成员同一天的结束时间依赖前序记录，必须顺序执行。
type Aggregator struct {
	schedules map[string]*model.MonthSchedule
	rules     Rules
}

// NewAggregator 创建聚合器，schedules 由调用方独占
func NewAggregator(schedules map[string]*model.MonthSchedule, rules Rules) *Aggregator {
	return &Aggregator{
		schedules: schedules,
		rules:     rules,
	}
}

// Apply 折叠一条记录：
//   - 标记当日出勤
//   - 首条记录：开始 = 基准时间，结束 = 基准时间 + 工时 + 午休
//   - 后续记录：开始不变，结束 = 上次结束 + 工时
//   - 追加工单号（去重在后续步骤）
func (a *Aggregator) Apply(entry model.LogEntry) error {
	schedule, ok := a.schedules[entry.User]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, entry.User)
	}

	day, err := dayOf(schedule, entry.Date)
	if err != nil {
		return err
	}

	day.Code = model.CodeWorked

	if day.Start == nil {
		start := a.rules.BaselineStart
		day.Start = &start
	}

	var end model.Clock
	if day.End == nil {
		end = a.rules.BaselineStart.AddHours(entry.Hours + a.rules.BreakHours)
	} else {
		end = day.End.AddHours(entry.Hours)
	}
	day.End = &end

	if entry.TicketID != "" {
		day.Tasks = append(day.Tasks, entry.TicketID)
	}

	return nil
}
