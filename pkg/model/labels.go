package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a binding key such as "tenDangNhap" or "ma_cai_dat"
// into a display label ("Ten Dang Nhap", "Ma Cai Dat"). Pages fall back to it
// when a field declares no label.
func DefaultLabeler(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		for _, word := range splitCamel(part) {
			words = append(words, capitalise(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) []string {
	runes := []rune(input)
	var (
		words []string
		start int
	)
	for idx := 1; idx < len(runes); idx++ {
		prev, cur := runes[idx-1], runes[idx]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			words = append(words, string(runes[start:idx]))
			start = idx
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

func capitalise(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
