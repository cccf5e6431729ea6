package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"timesheet/internal/model"
	"timesheet/internal/service/timesheet"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.json", `{
		"members": {"Bob Jones": "bob", "Alice Smith": "alice"},
		"vacations": [{"date": "03/20/2024", "type": "PH"}, {"date": "2024-03-21", "type": "AL"}],
		"date_format": "mm/dd/YYYY"
	}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantMembers := []model.Member{
		{Fullname: "Alice Smith", Nickname: "alice"},
		{Fullname: "Bob Jones", Nickname: "bob"},
	}
	if diff := cmp.Diff(wantMembers, p.Members); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}

	wantVacations := []model.Vacation{
		{Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), Type: "PH"},
		{Date: time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), Type: "AL"},
	}
	if diff := cmp.Diff(wantVacations, p.Vacations); diff != "" {
		t.Fatalf("vacations mismatch (-want +got):\n%s", diff)
	}
	if p.DateFormat != "mm/dd/YYYY" {
		t.Fatalf("date format=%q", p.DateFormat)
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", `
members:
  Alice Smith: alice
vacations:
  - date: "2024-03-20"
    type: PH
date_format: YYYY-mm-dd
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Members) != 1 || p.Members[0].Nickname != "alice" {
		t.Fatalf("unexpected members: %+v", p.Members)
	}
	if len(p.Vacations) != 1 || p.Vacations[0].Date.Day() != 20 {
		t.Fatalf("unexpected vacations: %+v", p.Vacations)
	}
}

func TestParse_DefaultDateFormat(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"members": {"Alice Smith": "alice"}}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.DateFormat != timesheet.DefaultDateFormat {
		t.Fatalf("date format=%q, want %q", p.DateFormat, timesheet.DefaultDateFormat)
	}
	if p.Vacations == nil {
		t.Fatalf("vacations should be an empty slice")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want error
	}{
		{"bad json", `{"members": `, ErrInvalidConfig},
		{"missing members", `{"date_format": "YYYY-mm-dd"}`, ErrMissingMembers},
		{"empty members", `{"members": {}}`, timesheet.ErrNoMembers},
		{"duplicate nickname", `{"members": {"A": "x", "B": "x"}}`, ErrDuplicateNickname},
		{"bad date format", `{"members": {"A": "a"}, "date_format": "YYYY-QQ-dd"}`, timesheet.ErrDateFormat},
		{"bad vacation date", `{"members": {"A": "a"}, "vacations": [{"date": "tomorrow", "type": "PH"}]}`, ErrInvalidConfig},
		{"empty vacation type", `{"members": {"A": "a"}, "vacations": [{"date": "2024-03-01", "type": ""}]}`, ErrInvalidConfig},
		{"empty nickname", `{"members": {"A": " "}}`, ErrInvalidConfig},
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c.data), FormatJSON); !errors.Is(err, c.want) {
			t.Fatalf("%s: err=%v, want %v", c.name, err, c.want)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "config.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want os.ErrNotExist", err)
	}
}

func TestSaveAndDecompileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config.json", "config.yml"} {
		path := filepath.Join(t.TempDir(), name)
		fc := &FileConfig{
			Members:    map[string]string{"Alice Smith": "alice"},
			Vacations:  []VacationConfig{{Date: "03/20/2024", Type: "PH"}},
			DateFormat: "mm/dd/YYYY",
		}
		saved, err := Save(path, fc)
		if err != nil {
			t.Fatalf("%s: Save: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%s: Load: %v", name, err)
		}
		if diff := cmp.Diff(saved, loaded); diff != "" {
			t.Fatalf("%s: saved/loaded mismatch (-saved +loaded):\n%s", name, diff)
		}

		back, err := Decompile(loaded)
		if err != nil {
			t.Fatalf("%s: Decompile: %v", name, err)
		}
		if diff := cmp.Diff(fc, back); diff != "" {
			t.Fatalf("%s: decompile mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := Save(path, &FileConfig{}); !errors.Is(err, ErrMissingMembers) {
		t.Fatalf("err=%v, want ErrMissingMembers", err)
	}
	if fileExists(path) {
		t.Fatalf("invalid config must not be written")
	}
}
