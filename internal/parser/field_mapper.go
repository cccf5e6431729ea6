package parser

import "regexp"

// 列名别名（规范化后匹配）：英文导出、中文与日文表头
var fieldPatterns = map[LogField]*regexp.Regexp{
	FieldUser:  regexp.MustCompile(`^(user|username|author|member|用户|用户名|成员|ユーザー|ユーザ|担当者)$`),
	FieldDate:  regexp.MustCompile(`^(date|spenton|day|日期|日付|作業日)$`),
	FieldHours: regexp.MustCompile(`^(hours|hour|spenttime|工时|时长|時間|作業時間)$`),
	FieldIssue: regexp.MustCompile(`^(issue|ticket|task|问题|工单|任务|チケット|課題)$`),
}

// FieldMapper 字段映射器
type FieldMapper struct{}

// NewFieldMapper 创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// Map 映射表头，每个字段取第一个匹配的列
func (m *FieldMapper) Map(columnNames []string) map[LogField]FieldMapping {
	mappings := make(map[LogField]FieldMapping, len(RequiredFields))

	for idx, raw := range columnNames {
		col := NormalizeColumnName(raw)
		if col == "" {
			continue
		}
		for _, field := range RequiredFields {
			if _, done := mappings[field]; done {
				continue
			}
			if fieldPatterns[field].MatchString(col) {
				mappings[field] = FieldMapping{
					ColumnIndex: idx,
					ColumnName:  raw,
					Field:       field,
				}
				break
			}
		}
	}

	return mappings
}

// Missing 返回未映射的必需字段
func Missing(mappings map[LogField]FieldMapping) []LogField {
	var missing []LogField
	for _, field := range RequiredFields {
		if _, ok := mappings[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}
