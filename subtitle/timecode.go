package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// SRTTimeToASSTime converts an SRT "HH:MM:SS,mmm" timestamp to the ASS
// "H:MM:SS.cc" form: centiseconds instead of milliseconds, and no
// leading zero on the hour component.
func SRTTimeToASSTime(srtTime string) string {
	normalized := strings.ReplaceAll(srtTime, ",", ".")
	parts := strings.Split(normalized, ":")
	if len(parts) != 3 {
		return normalized
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return normalized
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return normalized
	}

	secParts := strings.SplitN(parts[2], ".", 2)
	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return normalized
	}

	centiseconds := "00"
	if len(secParts) > 1 {
		ms := secParts[1]
		if len(ms) > 2 {
			ms = ms[:2]
		}
		for len(ms) < 2 {
			ms += "0"
		}
		centiseconds = ms
	}

	return fmt.Sprintf("%d:%02d:%02d.%s", hours, minutes, seconds, centiseconds)
}
