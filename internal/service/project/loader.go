package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"timesheet/internal/model"
	"timesheet/internal/service/timesheet"
)

var (
	// ErrInvalidConfig 项目配置格式错误
	ErrInvalidConfig = errors.New("invalid project config")
	// ErrMissingMembers 缺少 members 键
	ErrMissingMembers = errors.New("missing required key: members")
	// ErrDuplicateNickname 昵称重复
	ErrDuplicateNickname = errors.New("duplicate member nickname")
)

// Format 配置文件格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath 根据扩展名判断格式，未知扩展名按 JSON 处理
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load 读取并校验项目配置
func Load(path string) (*model.Project, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("project config %s: %w", path, os.ErrNotExist)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse 解析并校验项目配置内容
func Parse(data []byte, format Format) (*model.Project, error) {
	var fc FileConfig
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("%w: parse YAML: %v", ErrInvalidConfig, err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("%w: parse JSON: %v", ErrInvalidConfig, err)
		}
	}
	return Compile(&fc)
}

// Compile 校验配置并转换为 model.Project：
// 成员按全名排序，昵称唯一；日期格式可编译；假期日期按项目日期格式（或 YYYY-mm-dd）解析
func Compile(fc *FileConfig) (*model.Project, error) {
	if fc.Members == nil {
		return nil, ErrMissingMembers
	}
	if len(fc.Members) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, timesheet.ErrNoMembers)
	}

	members := make([]model.Member, 0, len(fc.Members))
	seen := make(map[string]string, len(fc.Members))
	fullnames := make(map[string]bool, len(fc.Members))
	for fullname, nickname := range fc.Members {
		fullname = strings.TrimSpace(fullname)
		nickname = strings.TrimSpace(nickname)
		if fullname == "" || nickname == "" {
			return nil, fmt.Errorf("%w: member name and nickname must not be empty", ErrInvalidConfig)
		}
		if fullnames[fullname] {
			return nil, fmt.Errorf("%w: duplicated member name %q", ErrInvalidConfig, fullname)
		}
		fullnames[fullname] = true
		if other, ok := seen[nickname]; ok {
			return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateNickname, nickname, other, fullname)
		}
		seen[nickname] = fullname
		members = append(members, model.Member{Fullname: fullname, Nickname: nickname})
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Fullname < members[j].Fullname
	})

	dateFormat := strings.TrimSpace(fc.DateFormat)
	if dateFormat == "" {
		dateFormat = timesheet.DefaultDateFormat
	}
	format, err := timesheet.ParseDateFormat(dateFormat)
	if err != nil {
		return nil, err
	}

	vacations := make([]model.Vacation, 0, len(fc.Vacations))
	for i, v := range fc.Vacations {
		typ := strings.TrimSpace(v.Type)
		if typ == "" {
			return nil, fmt.Errorf("%w: vacations[%d] has empty type", ErrInvalidConfig, i)
		}
		date, err := parseVacationDate(format, v.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: vacations[%d]: %v", ErrInvalidConfig, i, err)
		}
		vacations = append(vacations, model.Vacation{Date: date, Type: typ})
	}

	return &model.Project{
		Members:    members,
		Vacations:  vacations,
		DateFormat: dateFormat,
	}, nil
}

func parseVacationDate(format *timesheet.DateFormat, value string) (time.Time, error) {
	if t, err := format.Parse(value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date %q matches neither %s nor YYYY-mm-dd", value, format)
}

// Decompile 把 model.Project 还原为配置文件结构（假期日期按项目日期格式输出）
func Decompile(p *model.Project) (*FileConfig, error) {
	format, err := timesheet.ParseDateFormat(p.DateFormat)
	if err != nil {
		return nil, err
	}
	fc := &FileConfig{
		Members:    make(map[string]string, len(p.Members)),
		Vacations:  make([]VacationConfig, 0, len(p.Vacations)),
		DateFormat: p.DateFormat,
	}
	for _, m := range p.Members {
		fc.Members[m.Fullname] = m.Nickname
	}
	for _, v := range p.Vacations {
		fc.Vacations = append(fc.Vacations, VacationConfig{Date: format.Format(v.Date), Type: v.Type})
	}
	return fc, nil
}

// Save 校验后写回项目配置文件（按扩展名选择 JSON / YAML）
func Save(path string, fc *FileConfig) (*model.Project, error) {
	p, err := Compile(fc)
	if err != nil {
		return nil, err
	}
	switch FormatFromPath(path) {
	case FormatYAML:
		err = writeYAMLAtomic(path, fc)
	default:
		err = writeJSONAtomic(path, fc)
	}
	if err != nil {
		return nil, fmt.Errorf("save project config: %w", err)
	}
	return p, nil
}
