package grading

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind 题目的规范类型，评分逻辑只针对这四种分支
type Kind string

const (
	KindMCQ   Kind = "mcq"
	KindTF    Kind = "tf"
	KindFill  Kind = "fill"
	KindBuild Kind = "build"
	// KindUnresolved 无法识别的题型，评分恒为错误
	KindUnresolved Kind = "unresolved"
)

var (
	buildTextFields = []string{"answer_en", "answer_ro", "answer", "expected", "solution"}
	buildListFields = []string{"answers", "accept", "accept_en", "answer_variants"}
	tfFields        = []string{"correct_bool", "answer_bool", "correct"}
)

// ResolveKind 把课程内容中的题型标签映射为规范类型
func ResolveKind(sourceType string, hasOptions bool) Kind {
	switch strings.ToLower(strings.TrimSpace(sourceType)) {
	case "mcq", "choose", "dialogue_reply":
		return KindMCQ
	case "tf", "true_false":
		return KindTF
	case "fill":
		return KindFill
	case "fill_blank":
		if hasOptions {
			return KindMCQ
		}
		return KindFill
	case "build", "translate_ro_en", "translate_en_ro", "word_order":
		return KindBuild
	default:
		return KindUnresolved
	}
}

// Item 经过一次性摄取后的严格题目结构。
// 别名字段在 ParseItem 中统一处理，评分时不再回看原始字段。
type Item struct {
	Kind       Kind
	SourceType string
	Prompt     string

	// mcq
	Options      []any
	correctIndex *int

	// tf
	correctBool *bool

	// fill / build：规范化、去重后的可接受答案集合，保持首次出现顺序
	accepted []string

	// build 展示用：作者给出的词块与原始期望句子
	Tokens   []string
	Expected []string
}

// ExpectedIndex 返回 mcq 的正确选项下标
func (it Item) ExpectedIndex() (int, bool) {
	if it.correctIndex == nil {
		return 0, false
	}
	return *it.correctIndex, true
}

// ExpectedBool 返回判断题的标准答案
func (it Item) ExpectedBool() (bool, bool) {
	if it.correctBool == nil {
		return false, false
	}
	return *it.correctBool, true
}

// ExpectedSet 返回 fill/build 的可接受答案集合（已规范化）
func (it Item) ExpectedSet() []string {
	out := make([]string, len(it.accepted))
	copy(out, it.accepted)
	return out
}

// Resolvable 答案键是否可解析；不可解析的题目提交任何答案都判错
func (it Item) Resolvable() bool {
	switch it.Kind {
	case KindMCQ:
		return it.correctIndex != nil
	case KindTF:
		return it.correctBool != nil
	case KindFill, KindBuild:
		return len(it.accepted) > 0
	default:
		return false
	}
}

// ParseContent 解析课程内容文档中的 quiz.items
func ParseContent(raw []byte) ([]Item, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode lesson content: %w", err)
	}
	quiz, _ := doc["quiz"].(map[string]any)
	rawItems, _ := quiz["items"].([]any)

	items := make([]Item, 0, len(rawItems))
	for _, ri := range rawItems {
		m, _ := ri.(map[string]any)
		items = append(items, ParseItem(m))
	}
	return items, nil
}

// ParseItem 把一条原始题目映射为 Item
func ParseItem(raw map[string]any) Item {
	if raw == nil {
		return Item{Kind: KindUnresolved}
	}
	sourceType, _ := raw["type"].(string)
	options, _ := raw["options"].([]any)

	it := Item{
		Kind:       ResolveKind(sourceType, len(options) > 0),
		SourceType: sourceType,
		Prompt:     firstString(raw, "prompt_en", "prompt_ro"),
	}

	switch it.Kind {
	case KindMCQ:
		it.Options = options
		it.correctIndex = mcqIndex(raw, options)
	case KindTF:
		it.correctBool = tfValue(raw)
	case KindFill:
		var vals []string
		if s, ok := raw["answer"].(string); ok {
			vals = append(vals, s)
		}
		vals = append(vals, stringList(raw["answers"])...)
		vals = append(vals, stringList(raw["accept"])...)
		it.accepted = normalizedSet(vals)
	case KindBuild:
		for _, k := range buildTextFields {
			if s, ok := raw[k].(string); ok && s != "" {
				it.Expected = append(it.Expected, s)
			}
		}
		vals := append([]string{}, it.Expected...)
		for _, k := range buildListFields {
			vals = append(vals, stringList(raw[k])...)
		}
		it.accepted = normalizedSet(vals)
		it.Tokens = stringList(raw["tokens"])
	}
	return it
}

func mcqIndex(raw map[string]any, options []any) *int {
	// 显式给出 correct_index 时不再回退到 correct 文本
	if v, ok := raw["correct_index"]; ok && v != nil {
		if n, ok := toInt(v); ok {
			return &n
		}
		return nil
	}
	correct, ok := raw["correct"].(string)
	if !ok {
		return nil
	}
	for i, opt := range options {
		if s, ok := opt.(string); ok && s == correct {
			idx := i
			return &idx
		}
	}
	return nil
}

func tfValue(raw map[string]any) *bool {
	for _, k := range tfFields {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if b, ok := v.(bool); ok {
			return &b
		}
		return nil
	}
	return nil
}

func normalizedSet(vals []string) []string {
	out := make([]string, 0, len(vals))
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		n := Normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, x := range list {
		if s, ok := x.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toInt 宽松地把 JSON 值转换为整数，非整数一律失败
// AsInt 宽松整数转换：整数值的数字或数字字符串
func AsInt(v any) (int, bool) {
	return toInt(v)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
