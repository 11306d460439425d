package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"videopipeline/models"
)

// ParseSRT reads an SRT file into an ordered list of cues. This is a
// minimal reader for the common "index / timecode line / text lines /
// blank line" block shape; it is the external collaborator the
// Subtitle Transcoder is built against, not a tolerant general-purpose
// SRT grammar.
func ParseSRT(path string) ([]models.SubtitleCue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cues []models.SubtitleCue
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		index, err := strconv.Atoi(line)
		if err != nil {
			continue // not a cue index line, skip until we find one
		}

		if !scanner.Scan() {
			break
		}
		timeLine := strings.TrimSpace(scanner.Text())
		start, end, ok := parseTimeRangeSeconds(timeLine)
		if !ok {
			continue
		}

		var textLines []string
		for scanner.Scan() {
			text := scanner.Text()
			if strings.TrimSpace(text) == "" {
				break
			}
			textLines = append(textLines, text)
		}

		cues = append(cues, models.SubtitleCue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(textLines, "\n"),
		})
	}

	return cues, scanner.Err()
}

func parseTimeRangeSeconds(line string) (start, end float64, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := srtTimeToSeconds(strings.TrimSpace(parts[0]))
	end, err2 := srtTimeToSeconds(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

// srtTimeToSeconds parses an SRT "HH:MM:SS,mmm" timestamp into seconds.
func srtTimeToSeconds(t string) (float64, error) {
	t = strings.ReplaceAll(t, ",", ".")
	parts := strings.Split(t, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed SRT timestamp %q", t)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	return float64(hours*3600+minutes*60) + seconds, nil
}
