package grading

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 罗马尼亚语字母显式映射，逗号下加符与软音符两种写法都要覆盖
var romanianFolder = strings.NewReplacer(
	"ș", "s", "ş", "s", "Ș", "S", "Ş", "S",
	"ț", "t", "ţ", "t", "Ț", "T", "Ţ", "T",
	"ă", "a", "Ă", "A",
	"â", "a", "Â", "A",
	"î", "i", "Î", "I",
)

// StripDiacritics 去除变音符号：先做罗马尼亚字母映射，再经 NFD 分解删除组合附加符
func StripDiacritics(s string) string {
	s = romanianFolder.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize 把文本规范化为仅用于等价比较的形式：
// 去变音、转小写、标点替换为空格、连续空白折叠为一个空格、去首尾空白。
// 对任意输入满足 Normalize(Normalize(s)) == Normalize(s)。
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(StripDiacritics(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if isWordRune(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// 空白和标点一样视为分隔符
		pendingSpace = true
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
