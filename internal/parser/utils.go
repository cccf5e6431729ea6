package parser

import (
	"regexp"
	"strings"
)

var spacePattern = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名：去除 BOM、空白，转小写
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimSpace(name)
	name = spacePattern.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// isBlankRow 整行是否为空
func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cellAt 越界安全的取值
func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
