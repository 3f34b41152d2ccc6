// Package format holds the pure presentation helpers shared by the admin
// dashboard builder and the template layer.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Pluralize selects between two word forms based on count. A count of
// exactly 1 selects singular; every other count, including 0, selects
// plural. Irregular forms are passed explicitly ("y"/"ies").
func Pluralize(count int64, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// PluralSuffix is Pluralize with the regular English suffixes "" and "s".
func PluralSuffix(count int64) string {
	return Pluralize(count, "", "s")
}

var fileSizeUnits = [...]string{"KB", "MB", "GB", "TB", "PB"}

// FileSize renders a byte count using binary (1024-based) units. Values
// below 1024 are rendered as a plain byte count ("512 B"). Larger values use
// the largest unit with a magnitude of at least 1, formatted to one decimal
// place with a trailing ".0" trimmed ("1.5 KB", "1 GB"). Zero renders
// as "0 B". A value whose one-decimal rendering would reach 1024 in the
// current unit is promoted to the next one, so 1048575 bytes is "1 MB",
// never "1024 KB".
func FileSize(bytes uint64) string {
	if bytes < 1024 {
		return strconv.FormatUint(bytes, 10) + " B"
	}

	value := float64(bytes)
	unit := ""
	for _, u := range fileSizeUnits {
		value /= 1024
		unit = u
		// 1023.95 and up would render as "1024.0"; promote instead.
		if value < 1023.95 {
			break
		}
	}

	s := strconv.FormatFloat(value, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + " " + unit
}

// Duration renders d as a compact uptime string, e.g. "3d 2h 17m 5s".
// Units above the largest non-zero one are omitted. Negative durations
// clamp to "0s".
func Duration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}

	days := secs / 86400
	hours := secs % 86400 / 3600
	mins := secs % 3600 / 60

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd ", days)
	}
	if days > 0 || hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if days > 0 || hours > 0 || mins > 0 {
		fmt.Fprintf(&b, "%dm ", mins)
	}
	fmt.Fprintf(&b, "%ds", secs%60)

	return b.String()
}
