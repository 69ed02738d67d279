package grading

import (
	"fmt"
	"strconv"
	"strings"
)

// Submission 单题提交内容，字段按题型取用
type Submission struct {
	Index  *int
	Value  *bool
	Text   string
	Tokens []string
}

// ParseSubmission 从客户端提交的 selected 对象解析答案。
// 类型不符的字段直接忽略，最终在评分时判为错误。
func ParseSubmission(raw map[string]any) Submission {
	var sub Submission
	if raw == nil {
		return sub
	}
	if v, ok := raw["index"]; ok && v != nil {
		if n, ok := toInt(v); ok {
			sub.Index = &n
		}
	}
	if b, ok := raw["value"].(bool); ok {
		sub.Value = &b
	}
	if s, ok := raw["text"].(string); ok {
		sub.Text = s
	}
	if list, ok := raw["tokens"].([]any); ok {
		for _, t := range list {
			if t == nil {
				continue
			}
			sub.Tokens = append(sub.Tokens, tokenString(t))
		}
	}
	return sub
}

func tokenString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Candidate 候选文本：有词块时按单个空格拼接，否则使用自由文本
func (s Submission) Candidate() string {
	if len(s.Tokens) > 0 {
		return strings.Join(s.Tokens, " ")
	}
	return s.Text
}

// Grade 对单题评分。纯函数，任何格式问题都降级为 false，不返回错误。
func Grade(it Item, sub Submission) bool {
	switch it.Kind {
	case KindMCQ:
		want, ok := it.ExpectedIndex()
		return ok && sub.Index != nil && *sub.Index == want
	case KindTF:
		want, ok := it.ExpectedBool()
		return ok && sub.Value != nil && *sub.Value == want
	case KindFill:
		return inSet(it.accepted, Normalize(sub.Text))
	case KindBuild:
		// 拼接后做精确文本比较，不是词袋比较
		cand := Normalize(sub.Candidate())
		if cand == "" {
			return false
		}
		return inSet(it.accepted, cand)
	default:
		return false
	}
}

func inSet(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
