package utils

import (
	"strconv"
)

// StringToIntDefault converts string to int, falling back to def on error
// or non-positive input. Used for limit/page query params.
func StringToIntDefault(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
