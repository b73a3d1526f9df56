package main

import (
	"fmt"
	"math"
	"strings"
)

var sizeNames = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// sizeConverter renders byte counts the way the metadata contract
// pins them: base-1024, at most two decimals, e.g. "12.34 MB".
func sizeConverter(byteSize int64) string {
	if byteSize <= 0 {
		return "0 B"
	}
	index := int(math.Floor(math.Log(float64(byteSize)) / math.Log(1024)))
	if index >= len(sizeNames) {
		index = len(sizeNames) - 1
	}
	value := math.Round(float64(byteSize)/math.Pow(1024, float64(index))*100) / 100
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d %s", int64(value), sizeNames[index])
	}
	return fmt.Sprintf("%g %s", value, sizeNames[index])
}

// convertSeconds humanizes an elapsed duration, keeping the two most
// significant parts, e.g. "2 hours, and 13 minutes".
func convertSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 1 {
		return fmt.Sprintf("%.0fms", seconds*1000)
	}

	remaining := int64(seconds)
	milliseconds := int64(math.Round((seconds - float64(remaining)) * 1000))

	units := []struct {
		name    string
		seconds int64
	}{
		{"year", 365 * 24 * 3600},
		{"month", 30 * 24 * 3600},
		{"day", 24 * 3600},
		{"hour", 3600},
		{"minute", 60},
	}

	parts := make([]string, 0, len(units)+1)
	for _, unit := range units {
		if count := remaining / unit.seconds; count > 0 {
			label := unit.name
			if count > 1 {
				label += "s"
			}
			parts = append(parts, fmt.Sprintf("%d %s", count, label))
		}
		remaining %= unit.seconds
	}
	switch {
	case remaining > 0 && milliseconds > 0:
		parts = append(parts, fmt.Sprintf("%.1fs", float64(remaining)+float64(milliseconds)/1000))
	case remaining > 0:
		parts = append(parts, fmt.Sprintf("%ds", remaining))
	case milliseconds > 0:
		parts = append(parts, fmt.Sprintf("%dms", milliseconds))
	}

	if len(parts) == 0 {
		return "0s"
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}
