// Package audio builds the ffmpeg invocation that produces the Final
// Muxer's composite audio track: narration at a configured volume, plus an
// optional background track that is volume-adjusted, tail-faded, and
// looped to match the video duration before being mixed in.
package audio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"videopipeline/command"
	"videopipeline/runner"
)

const bgmFadeOutSeconds = 3.0

// AudioBuilder builds the ffmpeg invocation that mixes narration and an
// optional background track into a single output audio file.
type AudioBuilder struct {
	narrationPath   string
	narrationVolume float64

	bgmPath      string
	bgmVolume    float64
	videoDuration float64 // seconds; bgm is looped and faded against this

	outputPath string
	codec      string
	bitrate    string

	priority int
	timeout  time.Duration

	ctx context.Context
	run *runner.Runner
}

// NewAudioBuilder creates a builder that mixes narrationPath (at
// narrationVolume) into outputPath.
func NewAudioBuilder(narrationPath string, narrationVolume float64, outputPath string) *AudioBuilder {
	return &AudioBuilder{
		narrationPath:   narrationPath,
		narrationVolume: narrationVolume,
		outputPath:      outputPath,
		codec:           "aac",
		bitrate:         "192k",
		priority:        command.PriorityNormal,
		timeout:         300 * time.Second,
		ctx:             context.Background(),
	}
}

// SetExecContext binds the context and Runner used by Run.
func (a *AudioBuilder) SetExecContext(ctx context.Context, r *runner.Runner) *AudioBuilder {
	a.ctx = ctx
	a.run = r
	return a
}

// AddBGM adds a background track at bgmVolume, looped and faded against
// videoDuration (the duration the composite audio track must match).
func (a *AudioBuilder) AddBGM(bgmPath string, bgmVolume, videoDuration float64) *AudioBuilder {
	a.bgmPath = bgmPath
	a.bgmVolume = bgmVolume
	a.videoDuration = videoDuration
	return a
}

// SetCodec sets the output audio codec.
func (a *AudioBuilder) SetCodec(codec string) *AudioBuilder {
	a.codec = codec
	return a
}

// SetTimeout overrides the default mix timeout.
func (a *AudioBuilder) SetTimeout(d time.Duration) *AudioBuilder {
	a.timeout = d
	return a
}

// BuildArgs constructs the ffmpeg arguments. With no BGM, narration is just
// volume-adjusted and re-encoded. With BGM, both tracks are filtered and
// mixed with amix.
func (a *AudioBuilder) BuildArgs() []string {
	args := []string{"-i", a.narrationPath}

	if a.bgmPath == "" {
		args = append(args,
			"-af", fmt.Sprintf("volume=%g", a.narrationVolume),
			"-c:a", a.codec,
			"-b:a", a.bitrate,
			"-y", a.outputPath,
		)
		return args
	}

	args = append(args, "-stream_loop", "-1", "-i", a.bgmPath)

	fadeStart := a.videoDuration - bgmFadeOutSeconds
	if fadeStart < 0 {
		fadeStart = 0
	}

	filter := fmt.Sprintf(
		"[0:a]volume=%g[narr];[1:a]volume=%g,atrim=0:%g,afade=t=out:st=%g:d=%g[bgm];[narr][bgm]amix=inputs=2:duration=first:dropout_transition=0[aout]",
		a.narrationVolume, a.bgmVolume, a.videoDuration, fadeStart, bgmFadeOutSeconds,
	)

	args = append(args,
		"-filter_complex", filter,
		"-map", "[aout]",
		"-c:a", a.codec,
		"-b:a", a.bitrate,
		"-y", a.outputPath,
	)
	return args
}

// Run executes the mix through the Runner bound by SetExecContext.
func (a *AudioBuilder) Run() error {
	if a.run == nil {
		return fmt.Errorf("audio builder: SetExecContext was never called")
	}
	ffmpegPath, err := a.run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	res, err := a.run.Run(a.ctx, ffmpegPath, a.BuildArgs(), a.timeout)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("ffmpeg exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

// DryRun returns the command as a printable string without executing it.
func (a *AudioBuilder) DryRun() (string, error) {
	return "ffmpeg " + strings.Join(a.BuildArgs(), " "), nil
}

// SetPriority implements command.Command.
func (a *AudioBuilder) SetPriority(priority int) command.Command {
	a.priority = priority
	return a
}

// GetPriority returns the task priority.
func (a *AudioBuilder) GetPriority() int { return a.priority }

// GetTaskType returns command.TaskTypeAudio.
func (a *AudioBuilder) GetTaskType() command.TaskType { return command.TaskTypeAudio }

// GetInputPath returns the narration path, the primary input.
func (a *AudioBuilder) GetInputPath() string { return a.narrationPath }

// GetOutputPath returns the destination file path.
func (a *AudioBuilder) GetOutputPath() string { return a.outputPath }
