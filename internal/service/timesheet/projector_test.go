package timesheet

import (
	"testing"

	"timesheet/internal/model"
)

func TestProjectForWrite_OnlyDaysWithTasksAreWritten(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 3, "alice")
	agg := NewAggregator(schedules, DefaultRules())
	entries := []model.LogEntry{
		{User: "alice", Date: day(2024, 3, 1), Hours: 4, TicketID: "#2"},
		{User: "alice", Date: day(2024, 3, 1), Hours: 1, TicketID: "#1"},
		{User: "alice", Date: day(2024, 3, 2), Hours: 3},
	}
	for _, e := range entries {
		if err := agg.Apply(e); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	p := ProjectForWrite(schedules["alice"], ProjectOptions{})
	if p.Len() != 31 {
		t.Fatalf("len=%d, want 31", p.Len())
	}

	if !p.WriteMask[0] || p.Tasks[0] != "#1, #2" || p.Code[0] != 1 || p.Start[0] != "09:00" || p.End[0] != "15:00" {
		t.Fatalf("day 1 projection unexpected: mask=%v code=%v start=%v end=%v tasks=%v",
			p.WriteMask[0], p.Code[0], p.Start[0], p.End[0], p.Tasks[0])
	}

	// 有出勤但无工单号：数据存在但不写入
	if p.WriteMask[1] {
		t.Fatalf("day 2 without tasks must not be written")
	}
	if p.Code[1] != 1 || p.Start[1] != "09:00" || p.End[1] != "13:00" || p.Tasks[1] != nil {
		t.Fatalf("day 2 projection unexpected: code=%v start=%v end=%v tasks=%v", p.Code[1], p.Start[1], p.End[1], p.Tasks[1])
	}

	if p.WriteMask[2] || p.Code[2] != nil || p.Start[2] != nil || p.End[2] != nil {
		t.Fatalf("day 3 should be empty")
	}
	if p.WrittenDays() != 1 {
		t.Fatalf("written days=%d, want 1", p.WrittenDays())
	}
}

func TestProjectForWrite_WriteDaysWithoutTasks(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 3, "alice")
	agg := NewAggregator(schedules, DefaultRules())
	if err := agg.Apply(model.LogEntry{User: "alice", Date: day(2024, 3, 2), Hours: 3}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ApplyVacations(schedules, []model.Vacation{{Date: day(2024, 3, 3), Type: "PH"}})

	p := ProjectForWrite(schedules["alice"], ProjectOptions{WriteDaysWithoutTasks: true})
	if !p.WriteMask[1] || !p.WriteMask[2] {
		t.Fatalf("days 2 and 3 should be written: %v %v", p.WriteMask[1], p.WriteMask[2])
	}
	if p.Code[2] != "PH" {
		t.Fatalf("day 3 code=%v, want PH", p.Code[2])
	}
	if p.WriteMask[0] {
		t.Fatalf("day 1 has no data and must not be written")
	}
}

func TestProjectForWrite_VacationOnlyDaySkippedByDefault(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 3, "alice")
	agg := NewAggregator(schedules, DefaultRules())
	if err := agg.Apply(model.LogEntry{User: "alice", Date: day(2024, 3, 8), Hours: 2, TicketID: "#5"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ApplyVacations(schedules, []model.Vacation{
		{Date: day(2024, 3, 7), Type: "PH"},
		{Date: day(2024, 3, 8), Type: "AL"},
	})

	p := ProjectForWrite(schedules["alice"], ProjectOptions{})

	// 仅有假期标记、没有工单号的日子默认不写入
	if p.Code[6] != "PH" || p.Tasks[6] != nil {
		t.Fatalf("day 7 code=%v tasks=%v, want PH without tasks", p.Code[6], p.Tasks[6])
	}
	if p.WriteMask[6] {
		t.Fatalf("vacation-only day 7 must not be written")
	}

	// 假期覆盖了出勤代码，但当天有工单号，仍然写入
	if !p.WriteMask[7] || p.Code[7] != "AL" || p.Tasks[7] != "#5" {
		t.Fatalf("day 8 mask=%v code=%v tasks=%v", p.WriteMask[7], p.Code[7], p.Tasks[7])
	}
	if p.WrittenDays() != 1 {
		t.Fatalf("written days=%d, want 1", p.WrittenDays())
	}
}
