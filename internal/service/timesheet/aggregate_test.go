package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"timesheet/internal/model"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newTestSchedules(t *testing.T, year, month int, nicknames ...string) map[string]*model.MonthSchedule {
	t.Helper()
	s, err := InitMonthSchedules(nicknames, year, month)
	if err != nil {
		t.Fatalf("InitMonthSchedules: %v", err)
	}
	return s
}

func clockString(c *model.Clock) string {
	if c == nil {
		return "<nil>"
	}
	return c.String()
}

func TestAggregator_StartSetOnceEndAccumulates(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 3, "alice")
	agg := NewAggregator(schedules, DefaultRules())

	if err := agg.Apply(model.LogEntry{User: "alice", Date: day(2024, 3, 12), Hours: 2}); err != nil {
		t.Fatalf("Apply #1: %v", err)
	}
	d := &schedules["alice"].Days[11]
	if got := clockString(d.Start); got != "09:00" {
		t.Fatalf("start=%s, want 09:00", got)
	}
	if got := clockString(d.End); got != "12:00" {
		t.Fatalf("end after first entry=%s, want 12:00", got)
	}

	if err := agg.Apply(model.LogEntry{User: "alice", Date: day(2024, 3, 12), Hours: 3}); err != nil {
		t.Fatalf("Apply #2: %v", err)
	}
	if got := clockString(d.Start); got != "09:00" {
		t.Fatalf("start changed to %s", got)
	}
	if got := clockString(d.End); got != "15:00" {
		t.Fatalf("end after second entry=%s, want 15:00", got)
	}
	if d.Code != model.CodeWorked {
		t.Fatalf("code=%q, want %q", d.Code, model.CodeWorked)
	}
}

func TestAggregator_FractionalHoursAndCustomRules(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 3, "alice")
	agg := NewAggregator(schedules, Rules{BaselineStart: model.Clock(8*60 + 30), BreakHours: 0.75})

	for _, h := range []float64{1.5, 0.25} {
		if err := agg.Apply(model.LogEntry{User: "alice", Date: day(2024, 3, 1), Hours: h}); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	d := schedules["alice"].Days[0]
	if got := clockString(d.Start); got != "08:30" {
		t.Fatalf("start=%s, want 08:30", got)
	}
	// 08:30 + 1.5h + 0.75h = 10:45，再 +0.25h = 11:00
	if got := clockString(d.End); got != "11:00" {
		t.Fatalf("end=%s, want 11:00", got)
	}
}

func TestAggregator_TasksKeepArrivalOrder(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 3, "alice")
	agg := NewAggregator(schedules, DefaultRules())

	entries := []model.LogEntry{
		{User: "alice", Date: day(2024, 3, 4), Hours: 1, TicketID: "#20"},
		{User: "alice", Date: day(2024, 3, 4), Hours: 1},
		{User: "alice", Date: day(2024, 3, 4), Hours: 1, TicketID: "#10"},
		{User: "alice", Date: day(2024, 3, 4), Hours: 1, TicketID: "#20"},
	}
	for _, e := range entries {
		if err := agg.Apply(e); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	if diff := cmp.Diff([]string{"#20", "#10", "#20"}, schedules["alice"].Days[3].Tasks); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregator_OutOfRangeRejected(t *testing.T) {
	t.Parallel()

	schedules := newTestSchedules(t, 2024, 2, "alice")
	agg := NewAggregator(schedules, DefaultRules())

	for _, date := range []time.Time{day(2024, 3, 1), day(2023, 2, 5), day(2025, 2, 5)} {
		err := agg.Apply(model.LogEntry{User: "alice", Date: date, Hours: 1})
		if !errors.Is(err, ErrDayOutOfRange) {
			t.Fatalf("date %s: err=%v, want ErrDayOutOfRange", date.Format("2006-01-02"), err)
		}
	}
	for i, d := range schedules["alice"].Days {
		if d.Code.IsSet() {
			t.Fatalf("day %d modified by out-of-range entry", i+1)
		}
	}
}

func TestAggregator_UnknownMember(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(newTestSchedules(t, 2024, 3, "alice"), DefaultRules())
	if err := agg.Apply(model.LogEntry{User: "bob", Date: day(2024, 3, 1), Hours: 1}); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("err=%v, want ErrUnknownMember", err)
	}
}

func TestClock_OverflowPastMidnight(t *testing.T) {
	t.Parallel()

	end := DefaultBaselineStart.AddHours(16)
	if end.String() != "25:00" {
		t.Fatalf("end=%s, want 25:00", end)
	}
}
