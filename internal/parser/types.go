package parser

// LogField 工时日志中的必需列
type LogField string

const (
	FieldUser  LogField = "User"
	FieldDate  LogField = "Date"
	FieldHours LogField = "Hours"
	FieldIssue LogField = "Issue"
)

// RequiredFields 必需列，按输出顺序
var RequiredFields = []LogField{FieldUser, FieldDate, FieldHours, FieldIssue}

// FieldMapping 字段映射结果
type FieldMapping struct {
	ColumnIndex int      `json:"columnIndex"` // 列索引
	ColumnName  string   `json:"columnName"`  // 原始列名
	Field       LogField `json:"field"`
}

// SheetRecognitionResult Sheet 识别结果
type SheetRecognitionResult struct {
	SheetName  string                    `json:"sheetName"`
	Confidence float64                   `json:"confidence"` // 置信度 0-1
	Mappings   map[LogField]FieldMapping `json:"mappings"`
	Missing    []LogField                `json:"missing"`
}

// ReadResult 读取结果
type ReadResult struct {
	Filename    string   `json:"filename"`
	SheetName   string   `json:"sheetName,omitempty"` // XLSX 时为实际读取的 sheet
	Header      []string `json:"header"`
	TotalRows   int      `json:"totalRows"`
	SkippedRows int      `json:"skippedRows"` // 空行
}
