package templates

import (
	"strconv"
	"strings"
)

// prefixedStrings renders "p0, p1, ..." for count items.
func prefixedStrings(prefix string, count int) string {
	return joined(count, func(i int) string {
		return prefix + strconv.Itoa(i)
	})
}

func joined(count int, item func(i int) string) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(item(i))
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
