package model

import "time"

// ImportStatus 导入状态
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportSucceeded  ImportStatus = "succeeded"
	ImportFailed     ImportStatus = "failed"
)

// ImportRecord 一次导入的历史记录
type ImportRecord struct {
	ID           string       `json:"id"`
	TemplateName string       `json:"templateName"`
	LogName      string       `json:"logName"`
	OutputPath   string       `json:"outputPath"`
	Year         int          `json:"year"`
	Month        int          `json:"month"`
	Status       ImportStatus `json:"status"`
	TotalRows    int          `json:"totalRows"`
	Members      int          `json:"members"`
	WrittenDays  int          `json:"writtenDays"`
	ErrorRows    int          `json:"errorRows"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
}

// ImportSummary 导入完成时的统计
type ImportSummary struct {
	ImportID    string        `json:"importId"`
	OutputPath  string        `json:"outputPath"`
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	TotalRows   int           `json:"totalRows"`
	Members     []string      `json:"members"`
	WrittenDays int           `json:"writtenDays"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Duration    time.Duration `json:"duration"`
}
