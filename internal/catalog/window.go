package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Unknown is written in place of a window the vendor does not report.
const Unknown = "N/A"

// ParseWindow reads a window token: "8192" is 8192 tokens, "128k" is
// 128*1024. Anything else ("", "N/A", garbage) is 0.
func ParseWindow(token string) int {
	token = strings.TrimSpace(token)
	multiplier := 1
	if strings.HasSuffix(token, "k") || strings.HasSuffix(token, "K") {
		multiplier = 1024
		token = token[:len(token)-1]
	}

	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || n > math.MaxInt/multiplier {
		return 0
	}
	return n * multiplier
}

// FormatWindow writes n as "<n/1024>k" when n >= 1024, else as the plain
// number. A zero window is Unknown.
func FormatWindow(n int) string {
	switch {
	case n <= 0:
		return Unknown
	case n >= 1024:
		return strconv.Itoa(n/1024) + "k"
	default:
		return strconv.Itoa(n)
	}
}
