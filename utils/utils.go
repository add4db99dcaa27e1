package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// GroupLabel names the i-th generated group: "Group A", "Group B", ...
// Past "Group Z" it continues with "Group AA", "Group AB", ...
func GroupLabel(i int) string {
	return "Group " + letters(i)
}

func letters(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return letters(i/26-1) + string(rune('A'+i%26))
}

// Slug lowercases s and replaces everything but letters and digits with "-".
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
