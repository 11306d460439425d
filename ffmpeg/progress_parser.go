// Package ffmpeg parses the encoding statistics ffmpeg writes to stderr.
package ffmpeg

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"videopipeline/models"
)

// StatsParser extracts encoding metrics (frame, fps, bitrate, speed) from
// ffmpeg's -stats stderr output. The Runner captures a command's complete
// stderr once it exits rather than streaming it line by line, so StatsParser
// works over the finished blob and reports the last values it saw instead
// of driving a live callback.
type StatsParser struct {
	frameRegex   *regexp.Regexp
	fpsRegex     *regexp.Regexp
	sizeRegex    *regexp.Regexp
	timeRegex    *regexp.Regexp
	bitrateRegex *regexp.Regexp
	speedRegex   *regexp.Regexp
}

// NewStatsParser builds a StatsParser.
func NewStatsParser() *StatsParser {
	return &StatsParser{
		frameRegex:   regexp.MustCompile(`^frame=\s*(\d+)`),
		fpsRegex:     regexp.MustCompile(`(?:^|\s)fps=\s*([0-9.]+)`),
		sizeRegex:    regexp.MustCompile(`(?:^|\s)(?:out_time_)?size=\s*([0-9]+)`),
		timeRegex:    regexp.MustCompile(`(?:^|\s)(?:out_time_)?time=\s*([0-9:\.]+)`),
		bitrateRegex: regexp.MustCompile(`(?:^|\s)bitrate=\s*([0-9.]+)`),
		speedRegex:   regexp.MustCompile(`(?:^|\s)speed=\s*([0-9.]+)x?`),
	}
}

// ParseLine parses a single line of ffmpeg stderr output and updates
// progress in place. Returns whether the line carried any recognized field.
func (p *StatsParser) ParseLine(line string, progress *models.EncodingProgress) bool {
	line = strings.TrimSpace(line)
	if line == "" || line == "progress=continue" || line == "progress=end" {
		return false
	}

	updated := false

	if matches := p.frameRegex.FindStringSubmatch(line); len(matches) > 1 {
		if frame, err := strconv.ParseInt(matches[1], 10, 64); err == nil {
			progress.Frame = frame
			updated = true
		}
	}
	if matches := p.fpsRegex.FindStringSubmatch(line); len(matches) > 1 {
		if fps, err := strconv.ParseFloat(matches[1], 64); err == nil {
			progress.FPS = fps
			updated = true
		}
	}
	if matches := p.sizeRegex.FindStringSubmatch(line); len(matches) > 1 {
		progress.Size = matches[1] + "kB"
		updated = true
	}
	if matches := p.timeRegex.FindStringSubmatch(line); len(matches) > 1 {
		progress.CurrentTime = matches[1]
		if seconds := p.timeToSeconds(matches[1]); seconds > 0 {
			progress.CalculateProgress(seconds)
		}
		updated = true
	}
	if matches := p.bitrateRegex.FindStringSubmatch(line); len(matches) > 1 {
		progress.Bitrate = matches[1] + "kbits/s"
		updated = true
	}
	if matches := p.speedRegex.FindStringSubmatch(line); len(matches) > 1 {
		if speed, err := strconv.ParseFloat(matches[1], 64); err == nil {
			progress.Speed = speed
			updated = true
		}
	}

	return updated
}

// ParseStderr replays a completed command's stderr through ParseLine and
// returns the resulting progress snapshot, its State set to completed if
// any stats line was recognized.
func (p *StatsParser) ParseStderr(stderr string, totalDuration float64) *models.EncodingProgress {
	progress := models.NewEncodingProgress(totalDuration)
	sawStats := false

	for _, line := range strings.Split(stderr, "\n") {
		if p.ParseLine(line, progress) {
			sawStats = true
		}
	}

	if sawStats {
		progress.State = models.ProgressStateCompleted
	}
	return progress
}

func (p *StatsParser) timeToSeconds(timeStr string) float64 {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)

	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}

	return hours*3600 + minutes*60 + seconds
}

// FormatProgressJSON converts progress to JSON for logging.
func FormatProgressJSON(progress *models.EncodingProgress) (string, error) {
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
