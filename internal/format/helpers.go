package format

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// FmtDuration renders a duration at a precision suited to its magnitude.
func FmtDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

// FmtCount renders an event or step count with thousands separators.
func FmtCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FmtMeV renders an energy in MeV with four decimal places.
func FmtMeV(e float64) string {
	return strconv.FormatFloat(e, 'f', 4, 64)
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// content was removed.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// BoolMark renders a boolean as a check mark or a blank cell.
func BoolMark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}
