package ffprobe

// Package ffprobe provides utilities for extracting metadata from media files
// using the ffprobe command-line tool.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"videopipeline/runner"
)

const probeTimeout = 5 * time.Second

// Stream represents a media stream (audio, video, subtitle, etc.)
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"`
	CodecLongName string `json:"codec_long_name"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	SampleRate    string `json:"sample_rate,omitempty"`
	Channels      int    `json:"channels,omitempty"`
	Duration      string `json:"duration,omitempty"`
}

// Format represents the container format information.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// ProbeResult holds the metadata extracted from a media file.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// GetDuration returns the duration of the media file in seconds.
//
// Returns an error if the duration cannot be parsed.
func (pr *ProbeResult) GetDuration() (float64, error) {
	if pr.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", pr.Format.Duration, err)
	}

	return duration, nil
}

// GetVideoStreams returns all video streams from the media file.
func (pr *ProbeResult) GetVideoStreams() []Stream {
	var videoStreams []Stream
	for _, stream := range pr.Streams {
		if stream.CodecType == "video" {
			videoStreams = append(videoStreams, stream)
		}
	}
	return videoStreams
}

// GetAudioStreams returns all audio streams from the media file.
func (pr *ProbeResult) GetAudioStreams() []Stream {
	var audioStreams []Stream
	for _, stream := range pr.Streams {
		if stream.CodecType == "audio" {
			audioStreams = append(audioStreams, stream)
		}
	}
	return audioStreams
}

// Prober wraps a Runner to probe media files via ffprobe, satisfying the
// planner package's Prober interface.
type Prober struct {
	run *runner.Runner
}

// New creates a Prober bound to the given Runner.
func New(run *runner.Runner) *Prober {
	return &Prober{run: run}
}

// Probe analyzes a media file and extracts its metadata using ffprobe.
func (p *Prober) Probe(ctx context.Context, sourcePath string) (*ProbeResult, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	bin, err := p.run.ResolveFFprobe()
	if err != nil {
		return nil, err
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		sourcePath,
	}

	res, err := p.run.RunProbe(ctx, bin, args, probeTimeout)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var result ProbeResult
	if err := json.Unmarshal([]byte(res.Stdout), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}
	return &result, nil
}

// ProbeDimensions satisfies planner.Prober: it reads the width, height, and
// duration of the first video stream in sourcePath.
func (p *Prober) ProbeDimensions(ctx context.Context, sourcePath string) (width, height int, duration float64, err error) {
	result, err := p.Probe(ctx, sourcePath)
	if err != nil {
		return 0, 0, 0, err
	}

	duration, err = result.GetDuration()
	if err != nil {
		return 0, 0, 0, err
	}

	videoStreams := result.GetVideoStreams()
	if len(videoStreams) == 0 {
		return 0, 0, 0, fmt.Errorf("no video stream found in %s", sourcePath)
	}

	return videoStreams[0].Width, videoStreams[0].Height, duration, nil
}
