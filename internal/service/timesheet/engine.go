package timesheet

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"timesheet/internal/model"
)

// ErrDuplicateMember 成员昵称或全名重复
var ErrDuplicateMember = errors.New("duplicate member")

// Input 一次导入的全部输入
type Input struct {
	Members    []model.Member
	Year       int
	Month      int
	Rows       []model.LogRow
	Vacations  []model.Vacation
	DateFormat string
}

// Result 聚合结果：致命错误时不返回部分结果，行级问题收集在 Diagnostics 中
type Result struct {
	Year             int                             `json:"year"`
	Month            int                             `json:"month"`
	Schedules        map[string]*model.MonthSchedule `json:"schedules"`
	Members          []model.Member                  `json:"members"` // 出现在日志中的成员，按全名排序
	Diagnostics      []model.Diagnostic              `json:"diagnostics"`
	TotalRows        int                             `json:"totalRows"`
	AppliedEntries   int                             `json:"appliedEntries"`
	AppliedVacations int                             `json:"appliedVacations"`
}

// Engine 考勤聚合引擎
type Engine struct {
	rules  Rules
	logger *zap.Logger
}

// NewEngine 创建引擎，logger 可为 nil
func NewEngine(rules Rules, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rules:  rules,
		logger: logger,
	}
}

// BuildSchedules 使用默认规则构建月表
func BuildSchedules(in Input) (*Result, error) {
	return NewEngine(DefaultRules(), nil).Build(in)
}

// Build 初始化月表 → 解析并聚合日志 → 覆盖假期 → 工单去重
func (e *Engine) Build(in Input) (*Result, error) {
	format, err := ParseDateFormat(in.DateFormat)
	if err != nil {
		return nil, err
	}
	if err := validatePeriod(in.Year, in.Month); err != nil {
		return nil, err
	}
	if len(in.Members) == 0 {
		return nil, ErrNoMembers
	}
	if err := checkUniqueMembers(in.Members); err != nil {
		return nil, err
	}

	contained := membersInLog(in.Members, in.Rows)
	if len(contained) == 0 {
		return nil, ErrNoMembersInLog
	}

	nicknames := model.Nicknames(contained)

	schedules, err := InitMonthSchedules(nicknames, in.Year, in.Month)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Year:        in.Year,
		Month:       in.Month,
		Schedules:   schedules,
		Members:     contained,
		Diagnostics: []model.Diagnostic{},
		TotalRows:   len(in.Rows),
	}

	record := func(rowErr *RowError) {
		result.Diagnostics = append(result.Diagnostics, rowErr.Diagnostic())
		e.logger.Warn("skip log row",
			zap.Int("line", rowErr.Line),
			zap.String("user", rowErr.User),
			zap.String("kind", string(rowErr.Kind)),
			zap.Error(rowErr.Err),
		)
	}

	normalizer := NewNormalizer(format, nicknames, record)
	aggregator := NewAggregator(schedules, e.rules)

	for entry := range normalizer.Entries(in.Rows) {
		if err := aggregator.Apply(entry); err != nil {
			if !errors.Is(err, ErrDayOutOfRange) {
				// 未知成员已在解析阶段过滤，走到这里说明月表与成员不一致
				return nil, fmt.Errorf("aggregate line %d: %w", entry.Line, err)
			}
			record(&RowError{Line: entry.Line, User: entry.User, Kind: model.DiagnosticOutOfRange, Err: err})
			continue
		}
		result.AppliedEntries++
	}

	result.AppliedVacations = ApplyVacations(schedules, in.Vacations)

	var g errgroup.Group
	for _, s := range schedules {
		g.Go(func() error {
			dedupeSchedule(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("schedules built",
		zap.Int("year", in.Year),
		zap.Int("month", in.Month),
		zap.Int("members", len(contained)),
		zap.Int("rows", result.TotalRows),
		zap.Int("applied", result.AppliedEntries),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)

	return result, nil
}

func checkUniqueMembers(members []model.Member) error {
	fullnames := make(map[string]bool, len(members))
	nicknames := make(map[string]bool, len(members))
	for _, m := range members {
		if fullnames[m.Fullname] {
			return fmt.Errorf("%w: fullname %q", ErrDuplicateMember, m.Fullname)
		}
		if nicknames[m.Nickname] {
			return fmt.Errorf("%w: nickname %q", ErrDuplicateMember, m.Nickname)
		}
		fullnames[m.Fullname] = true
		nicknames[m.Nickname] = true
	}
	return nil
}

// membersInLog 返回在日志 User 列中出现过的成员，按全名排序
func membersInLog(members []model.Member, rows []model.LogRow) []model.Member {
	users := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		users[strings.TrimSpace(r.User)] = struct{}{}
	}

	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if _, ok := users[m.Nickname]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Fullname < out[j].Fullname
	})
	return out
}
