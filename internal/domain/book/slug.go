package book

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug 书名全部由非ASCII字符组成时(如纯中文书名)使用
const fallbackSlug = "book"

// Slugify 把书名转换为URL安全的Slug
//
//	"Café Society"    → "cafe-society"
//	"  Go -- in Action!" → "go-in-action"
//
// 规则:NFKD分解后去掉组合音标,只保留ASCII字母数字、下划线,
// 空白和连字符折叠为单个"-",去掉首尾的"-"和"_"
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}

	slug := strings.Trim(sb.String(), "-_")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// UniqueSlug 生成不与existing冲突的Slug:title, title-1, title-2...
// 纯函数,调用方需在同一事务内查询existing并依赖唯一索引兜底
func UniqueSlug(title string, existing []string) string {
	base := Slugify(title)

	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}

	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
