package tui

import (
	"fmt"
	"sort"
	"strings"
)

// FormatArgs renders tool arguments as "k=v" pairs in key order
func FormatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		switch v := args[k].(type) {
		case string:
			parts[i] = fmt.Sprintf("%s=%q", k, v)
		default:
			parts[i] = fmt.Sprintf("%s=%v", k, v)
		}
	}
	return strings.Join(parts, ", ")
}

// firstLine returns the first line of s, marking anything cut off
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
