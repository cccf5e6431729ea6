package model

import "time"

// LogRow 工时日志原始行（字段均为字符串）
type LogRow struct {
	Line  int    `json:"line"` // 源文件行号，表头为第 1 行
	User  string `json:"user"`
	Date  string `json:"date"`
	Hours string `json:"hours"`
	Issue string `json:"issue"`
}

// LogEntry 解析后的工时记录
type LogEntry struct {
	Line      int       `json:"line"`
	User      string    `json:"user"`
	Date      time.Time `json:"date"` // 仅日期部分，UTC
	Hours     float64   `json:"hours"`
	IssueText string    `json:"issueText"`
	TicketID  string    `json:"ticketId"` // 形如 "#123"，无则为空
}

// DiagnosticKind 行级诊断类型
type DiagnosticKind string

const (
	DiagnosticBadDate    DiagnosticKind = "bad_date"
	DiagnosticBadHours   DiagnosticKind = "bad_hours"
	DiagnosticOutOfRange DiagnosticKind = "out_of_range"
)

// Diagnostic 可恢复的行级问题：该行被跳过，导入继续
type Diagnostic struct {
	Line    int            `json:"line"`
	User    string         `json:"user"`
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}
