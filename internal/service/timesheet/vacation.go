package timesheet

import (
	"timesheet/internal/model"
)

// ApplyVacations 在聚合之后覆盖假期标记：假期对所有成员生效，优先于工时记录。
// 不在目标月份内的假期被忽略；同一天多次出现时以列表中最后一条为准。
// 返回实际生效的假期条数。
func ApplyVacations(schedules map[string]*model.MonthSchedule, vacations []model.Vacation) int {
	applied := 0
	for _, v := range vacations {
		if v.Type == "" {
			continue
		}
		hit := false
		for _, s := range schedules {
			day, err := dayOf(s, v.Date)
			if err != nil {
				continue
			}
			day.Code = model.DayCode(v.Type)
			hit = true
		}
		if hit {
			applied++
		}
	}
	return applied
}
