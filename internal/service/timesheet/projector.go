package timesheet

import (
	"strings"

	"timesheet/internal/model"
)

// TaskSeparator 工单号拼接分隔符
const TaskSeparator = ", "

// ProjectOptions 投影选项
type ProjectOptions struct {
	// WriteDaysWithoutTasks 为 true 时，有出勤但无工单号的日子也写入；默认只写有工单号的日子
	WriteDaysWithoutTasks bool
}

// Projection 按日期下标排列的四列数据以及写入掩码
type Projection struct {
	Code      []any  `json:"code"`
	Start     []any  `json:"start"`
	End       []any  `json:"end"`
	Tasks     []any  `json:"tasks"`
	WriteMask []bool `json:"writeMask"`
}

// Len 天数
func (p Projection) Len() int {
	return len(p.WriteMask)
}

// WrittenDays 需要写入的天数
func (p Projection) WrittenDays() int {
	n := 0
	for _, w := range p.WriteMask {
		if w {
			n++
		}
	}
	return n
}

// ProjectForWrite 把月表转换为写表用的列式数据
func ProjectForWrite(s *model.MonthSchedule, opts ProjectOptions) Projection {
	n := len(s.Days)
	p := Projection{
		Code:      make([]any, n),
		Start:     make([]any, n),
		End:       make([]any, n),
		Tasks:     make([]any, n),
		WriteMask: make([]bool, n),
	}

	for i := range s.Days {
		day := &s.Days[i]
		p.Code[i] = day.Code.CellValue()
		if day.Start != nil {
			p.Start[i] = day.Start.String()
		}
		if day.End != nil {
			p.End[i] = day.End.String()
		}

		tasks := DedupeTasks(day.Tasks)
		if len(tasks) > 0 {
			p.Tasks[i] = strings.Join(tasks, TaskSeparator)
			p.WriteMask[i] = true
		} else if opts.WriteDaysWithoutTasks && day.Worked() {
			p.WriteMask[i] = true
		}
	}

	return p
}
