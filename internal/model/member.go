package model

import "time"

// Member 项目成员：Fullname 对应工作簿中的 sheet 名，Nickname 对应工时日志中的 User
type Member struct {
	Fullname string `json:"fullname"`
	Nickname string `json:"nickname"`
}

// Vacation 假期（对所有成员生效）
type Vacation struct {
	Date time.Time `json:"date"`
	Type string    `json:"type"`
}

// Project 已校验的项目配置
type Project struct {
	Members    []Member   `json:"members"`    // 按 Fullname 排序
	Vacations  []Vacation `json:"vacations"`  // 保持配置文件中的顺序
	DateFormat string     `json:"dateFormat"` // 日期格式模板，如 "mm/dd/YYYY"
}

// Nicknames 按成员顺序返回昵称
func Nicknames(members []Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Nickname)
	}
	return out
}
