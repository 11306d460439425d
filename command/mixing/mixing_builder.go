// Package mixing builds the ffmpeg invocation that muxes the concatenated
// silent video with the Final Muxer's composite audio track into one
// container, with optional stream re-encoding and metadata.
package mixing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"videopipeline/command"
	"videopipeline/runner"
)

// MixingBuilder constructs ffmpeg commands for mixing/muxing audio and video
// streams. It supports combining separate audio and video files, adding
// multiple audio tracks, stream copying vs re-encoding, and metadata.
type MixingBuilder struct {
	videoInput  string
	audioInputs []string
	outputPath  string

	copyVideo    bool
	copyAudio    bool
	videoCodec   string
	audioCodec   string
	videoBitrate string
	audioBitrate string
	shortest     bool

	metadata   map[string]string
	mapStreams []string

	extraArgs []string
	priority  int
	timeout   time.Duration

	ctx context.Context
	run *runner.Runner
}

// NewMixingBuilder creates a new mixing builder.
func NewMixingBuilder(videoInput, outputPath string) *MixingBuilder {
	return &MixingBuilder{
		videoInput: videoInput,
		outputPath: outputPath,
		copyVideo:  true,
		copyAudio:  true,
		shortest:   true,
		priority:   command.PriorityNormal,
		metadata:   make(map[string]string),
		timeout:    300 * time.Second,
		ctx:        context.Background(),
	}
}

// SetExecContext binds the context and Runner used by Run.
func (m *MixingBuilder) SetExecContext(ctx context.Context, r *runner.Runner) *MixingBuilder {
	m.ctx = ctx
	m.run = r
	return m
}

// AddAudioTrack adds an audio input file. Can be called multiple times.
func (m *MixingBuilder) AddAudioTrack(audioPath string) *MixingBuilder {
	m.audioInputs = append(m.audioInputs, audioPath)
	return m
}

// SetCopyVideo sets whether to copy the video stream without re-encoding.
func (m *MixingBuilder) SetCopyVideo(copy bool) *MixingBuilder {
	m.copyVideo = copy
	return m
}

// SetVideoCodec sets the video codec for re-encoding and disables copy.
func (m *MixingBuilder) SetVideoCodec(codec string) *MixingBuilder {
	m.videoCodec = codec
	m.copyVideo = false
	return m
}

// SetAudioCodec sets the audio codec for re-encoding and disables copy.
func (m *MixingBuilder) SetAudioCodec(codec string) *MixingBuilder {
	m.audioCodec = codec
	m.copyAudio = false
	return m
}

// SetVideoBitrate sets the video bitrate for re-encoding.
func (m *MixingBuilder) SetVideoBitrate(bitrate string) *MixingBuilder {
	m.videoBitrate = bitrate
	return m
}

// AddMetadata adds metadata to the output file.
func (m *MixingBuilder) AddMetadata(key, value string) *MixingBuilder {
	m.metadata[key] = value
	return m
}

// SetShortest toggles -shortest (default true): trim the output to the
// shorter of the video/audio streams, for the sub-second drift between a
// concatenated clip sequence and its mixed audio track.
func (m *MixingBuilder) SetShortest(shortest bool) *MixingBuilder {
	m.shortest = shortest
	return m
}

// AddExtraArgs appends raw ffmpeg arguments verbatim.
func (m *MixingBuilder) AddExtraArgs(args ...string) *MixingBuilder {
	m.extraArgs = append(m.extraArgs, args...)
	return m
}

// SetTimeout overrides the default mux timeout.
func (m *MixingBuilder) SetTimeout(d time.Duration) *MixingBuilder {
	m.timeout = d
	return m
}

// BuildArgs constructs the ffmpeg command arguments.
func (m *MixingBuilder) BuildArgs() []string {
	args := []string{"-i", m.videoInput}

	for _, audio := range m.audioInputs {
		args = append(args, "-i", audio)
	}

	if len(m.mapStreams) > 0 {
		for _, mapping := range m.mapStreams {
			args = append(args, "-map", mapping)
		}
	} else {
		args = append(args, "-map", "0:v")
		for i := range m.audioInputs {
			args = append(args, "-map", fmt.Sprintf("%d:a", i+1))
		}
	}

	if m.copyVideo {
		args = append(args, "-c:v", "copy")
	} else {
		if m.videoCodec != "" {
			args = append(args, "-c:v", m.videoCodec)
		}
		if m.videoBitrate != "" {
			args = append(args, "-b:v", m.videoBitrate)
		}
	}

	if m.copyAudio {
		args = append(args, "-c:a", "copy")
	} else if m.audioCodec != "" {
		args = append(args, "-c:a", m.audioCodec)
	}

	for key, value := range m.metadata {
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", key, value))
	}

	if m.shortest {
		args = append(args, "-shortest")
	}

	args = append(args, m.extraArgs...)
	args = append(args, "-y", m.outputPath)

	return args
}

// Run executes the mux through the Runner bound by SetExecContext.
func (m *MixingBuilder) Run() error {
	if m.run == nil {
		return fmt.Errorf("mixing builder: SetExecContext was never called")
	}
	ffmpegPath, err := m.run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	res, err := m.run.Run(m.ctx, ffmpegPath, m.BuildArgs(), m.timeout)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("ffmpeg exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

// DryRun returns the command that would be executed without running it.
func (m *MixingBuilder) DryRun() (string, error) {
	return "ffmpeg " + strings.Join(m.BuildArgs(), " "), nil
}

// SetPriority implements command.Command.
func (m *MixingBuilder) SetPriority(priority int) command.Command {
	m.priority = priority
	return m
}

// GetPriority returns the task priority.
func (m *MixingBuilder) GetPriority() int { return m.priority }

// GetTaskType returns command.TaskTypeMixing.
func (m *MixingBuilder) GetTaskType() command.TaskType { return command.TaskTypeMixing }

// GetInputPath returns the primary input path (video).
func (m *MixingBuilder) GetInputPath() string { return m.videoInput }

// GetOutputPath returns the output file path.
func (m *MixingBuilder) GetOutputPath() string { return m.outputPath }
