package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"timesheet/internal/exporter"
	"timesheet/internal/model"
	"timesheet/internal/service/timesheet"
	"timesheet/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const projectJSON = `{
  "members": {"Alice Smith": "alice", "Bob Jones": "bob", "Dave Absent": "dave"},
  "vacations": [{"date": "03/08/2024", "type": "PH"}],
  "date_format": "mm/dd/YYYY"
}`

const logCSV = `User,Date,Hours,Issue
alice,03/05/2024,2,Fix login #123
alice,03/05/2024,3,Review #123
bob,03/06/2024,4,standup
alice,13/45/2024,1,#9
carol,03/05/2024,1,#7
`

type fixture struct {
	dir      string
	template string
	log      string
	config   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dir := t.TempDir()
	fx := fixture{
		dir:      dir,
		template: filepath.Join(dir, "timesheet.xlsx"),
		log:      filepath.Join(dir, "log.csv"),
		config:   filepath.Join(dir, "config.json"),
	}

	members := []model.Member{
		{Fullname: "Alice Smith", Nickname: "alice"},
		{Fullname: "Bob Jones", Nickname: "bob"},
	}
	wb, err := exporter.NewBlankTemplate(exporter.DefaultLayout(), members, 2024, 3)
	if err != nil {
		t.Fatalf("NewBlankTemplate: %v", err)
	}
	if err := wb.SaveAs(fx.template); err != nil {
		t.Fatalf("save template: %v", err)
	}
	_ = wb.Close()

	if err := os.WriteFile(fx.log, []byte(logCSV), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	if err := os.WriteFile(fx.config, []byte(projectJSON), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return fx
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "timesheet.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestImportWritesTemplateAndRecordsHistory(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	st := newTestStore(t)

	coordinator := NewCoordinator(st, DefaultSettings(), nil)
	ch := coordinator.Import(ImportOptions{
		TemplatePath:      fx.template,
		LogPath:           fx.log,
		ProjectConfigPath: fx.config,
	})

	var (
		summary     *model.ImportSummary
		types       []string
		diagnostics []model.Diagnostic
	)
	for evt := range ch {
		types = append(types, evt.Type)
		switch evt.Type {
		case "error":
			t.Fatalf("import error event: %s", evt.Message)
		case "diagnostic":
			diagnostics = append(diagnostics, evt.Data.(model.Diagnostic))
		case "done":
			summary = evt.Data.(*model.ImportSummary)
		}
	}

	if summary == nil {
		t.Fatalf("missing done event, events=%v", types)
	}
	if types[0] != "start" || types[len(types)-1] != "done" {
		t.Fatalf("unexpected event order: %v", types)
	}

	wantOut := filepath.Join(fx.dir, "timesheet_update.xlsx")
	if summary.OutputPath != wantOut {
		t.Fatalf("output=%q, want %q", summary.OutputPath, wantOut)
	}
	if summary.Year != 2024 || summary.Month != 3 {
		t.Fatalf("period=%d-%d", summary.Year, summary.Month)
	}
	if got := strings.Join(summary.Members, "|"); got != "Alice Smith|Bob Jones" {
		t.Fatalf("members=%q", got)
	}
	if summary.WrittenDays != 1 {
		t.Fatalf("written days=%d, want 1", summary.WrittenDays)
	}
	if len(diagnostics) != 1 || diagnostics[0].Kind != model.DiagnosticBadDate || diagnostics[0].Line != 5 {
		t.Fatalf("diagnostics=%+v", diagnostics)
	}

	out, err := excelize.OpenFile(wantOut)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer out.Close()

	// 3 月 5 日在第 14 行
	want := map[string]string{"D14": "1", "F14": "09:00", "G14": "15:00", "K14": "#123"}
	for cell, v := range want {
		got, err := out.GetCellValue("Alice Smith", cell)
		if err != nil || got != v {
			t.Fatalf("Alice Smith!%s=%q err=%v, want %q", cell, got, err, v)
		}
	}
	// bob 当天没有工单号，默认不写
	if got, _ := out.GetCellValue("Bob Jones", "D15"); got != "" {
		t.Fatalf("Bob Jones!D15=%q, want empty", got)
	}

	rec, err := st.GetImport(summary.ImportID)
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if rec.Status != model.ImportSucceeded || rec.WrittenDays != 1 || rec.ErrorRows != 1 || rec.Members != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	year, month, err := st.GetLastPeriod()
	if err != nil || year != 2024 || month != 3 {
		t.Fatalf("last period=%d-%d err=%v", year, month, err)
	}
}

func TestRunWritesDaysWithoutTasksWhenEnabled(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	settings := DefaultSettings()
	settings.Project.WriteDaysWithoutTasks = true

	outPath := filepath.Join(fx.dir, "out", "result.xlsx")
	summary, err := NewCoordinator(nil, settings, nil).Run(ImportOptions{
		TemplatePath:      fx.template,
		LogPath:           fx.log,
		ProjectConfigPath: fx.config,
		OutputPath:        outPath,
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// alice 5 日、bob 6 日，以及两人 8 日的假期
	if summary.WrittenDays != 4 {
		t.Fatalf("written days=%d, want 4", summary.WrittenDays)
	}

	out, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer out.Close()
	if got, _ := out.GetCellValue("Bob Jones", "G15"); got != "14:00" {
		t.Fatalf("Bob Jones!G15=%q, want 14:00", got)
	}
	if got, _ := out.GetCellValue("Bob Jones", "D17"); got != "PH" {
		t.Fatalf("Bob Jones!D17=%q, want PH", got)
	}
}

func TestRunPeriodOverride(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	_, err := NewCoordinator(nil, DefaultSettings(), nil).Run(ImportOptions{
		TemplatePath:      fx.template,
		LogPath:           fx.log,
		ProjectConfigPath: fx.config,
		Year:              2024,
		Month:             4,
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 三月的记录全部超出四月范围，不会写入任何天
	out, err := excelize.OpenFile(exporter.OutputPath(fx.template, "_update"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer out.Close()
	if got, _ := out.GetCellValue("Alice Smith", "K14"); got != "" {
		t.Fatalf("K14=%q, want empty", got)
	}
}

func TestRunFailuresAreRecorded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(t *testing.T, fx fixture, opts *ImportOptions)
		want   error
	}{
		{
			name: "no project",
			mutate: func(t *testing.T, fx fixture, opts *ImportOptions) {
				opts.ProjectConfigPath = ""
			},
			want: ErrNoProject,
		},
		{
			name: "no members in log",
			mutate: func(t *testing.T, fx fixture, opts *ImportOptions) {
				if err := os.WriteFile(fx.log, []byte("User,Date,Hours,Issue\ncarol,03/05/2024,1,#7\n"), 0644); err != nil {
					t.Fatalf("write log: %v", err)
				}
			},
			want: timesheet.ErrNoMembersInLog,
		},
		{
			name: "missing sheet",
			mutate: func(t *testing.T, fx fixture, opts *ImportOptions) {
				opts.Project = &model.Project{
					Members:    []model.Member{{Fullname: "Nobody", Nickname: "alice"}},
					DateFormat: "mm/dd/YYYY",
				}
			},
			want: exporter.ErrSheetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx := newFixture(t)
			st := newTestStore(t)
			opts := ImportOptions{
				TemplatePath:      fx.template,
				LogPath:           fx.log,
				ProjectConfigPath: fx.config,
			}
			tt.mutate(t, fx, &opts)

			var last ProgressEvent
			summary, err := NewCoordinator(st, DefaultSettings(), nil).Run(opts, func(evt ProgressEvent) {
				last = evt
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}
			if summary != nil {
				t.Fatalf("summary=%+v, want nil", summary)
			}
			if last.Type != "error" {
				t.Fatalf("last event=%q, want error", last.Type)
			}

			records, err := st.ListImports(10)
			if err != nil {
				t.Fatalf("ListImports: %v", err)
			}
			if len(records) != 1 || records[0].Status != model.ImportFailed || records[0].ErrorMessage == "" {
				t.Fatalf("records=%+v", records)
			}
			if _, err := os.Stat(exporter.OutputPath(fx.template, "_update")); !os.IsNotExist(err) {
				t.Fatalf("output file should not exist, stat err=%v", err)
			}
		})
	}
}
