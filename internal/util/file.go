package util

import (
	"path/filepath"
	"strings"
)

// DocumentFormat 根据扩展名判断课程文档格式，不支持的格式返回 false
func DocumentFormat(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}
