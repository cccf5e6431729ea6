package timesheet

import (
	"slices"

	"timesheet/internal/model"
)

// DedupeTasks 去掉空值与重复工单号并按字典序排序，结果不为 nil
func DedupeTasks(tasks []string) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// dedupeSchedule 整理月表中每天的工单列表
func dedupeSchedule(s *model.MonthSchedule) {
	for i := range s.Days {
		s.Days[i].Tasks = DedupeTasks(s.Days[i].Tasks)
	}
}
