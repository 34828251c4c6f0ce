package afk

import (
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders an elapsed time as "1d, 1h, 1min, 1s" with zero
// components omitted. Anything under one second renders as "<1s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	var b strings.Builder
	appendPart := func(v int64, unit string) {
		if v == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteString(unit)
	}

	appendPart(days, "d")
	appendPart(hours, "h")
	appendPart(minutes, "min")
	appendPart(seconds, "s")

	if b.Len() == 0 {
		return "<1s"
	}
	return b.String()
}
