package mixing

import (
	"strings"
	"testing"

	"videopipeline/command"
)

func TestNewMixingBuilder_Defaults(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")

	if builder.videoInput != "/input/video.mp4" {
		t.Error("expected videoInput to be set")
	}
	if builder.outputPath != "/output/mixed.mp4" {
		t.Error("expected outputPath to be set")
	}
	if !builder.copyVideo {
		t.Error("expected copyVideo to be true by default")
	}
	if !builder.shortest {
		t.Error("expected shortest to be true by default")
	}
	if builder.priority != command.PriorityNormal {
		t.Error("expected default priority to be PriorityNormal")
	}
}

func TestMixingBuilder_AddAudioTrack(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddAudioTrack("/input/audio.m4a")

	if len(builder.audioInputs) != 1 {
		t.Fatalf("expected 1 audio track, got %d", len(builder.audioInputs))
	}
	if builder.audioInputs[0] != "/input/audio.m4a" {
		t.Error("audio track not set correctly")
	}
}

func TestMixingBuilder_StreamCopying(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddAudioTrack("/input/audio.m4a")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-c:v copy") {
		t.Error("expected video stream copy")
	}
	if !strings.Contains(argsStr, "-shortest") {
		t.Error("expected -shortest by default")
	}
}

func TestMixingBuilder_ReEncoding(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddAudioTrack("/input/audio.m4a").
		SetVideoCodec("libx264").
		SetVideoBitrate("5M").
		SetAudioCodec("aac")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-c:v libx264") {
		t.Error("expected video codec libx264")
	}
	if !strings.Contains(argsStr, "-b:v 5M") {
		t.Error("expected video bitrate 5M")
	}
	if !strings.Contains(argsStr, "-c:a aac") {
		t.Error("expected audio codec aac")
	}
}

func TestMixingBuilder_StreamMapping(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddAudioTrack("/input/audio.m4a")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-map 0:v") {
		t.Error("expected video mapping from first input")
	}
	if !strings.Contains(argsStr, "-map 1:a") {
		t.Error("expected audio mapping from second input")
	}
}

func TestMixingBuilder_Metadata(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddMetadata("title", "My Video")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-metadata title=My Video") {
		t.Error("expected title metadata")
	}
}

func TestMixingBuilder_ExtraArgs(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddExtraArgs("-movflags", "+faststart")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-movflags +faststart") {
		t.Error("expected movflags argument")
	}
}

func TestMixingBuilder_DryRun(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.AddAudioTrack("/input/audio.m4a")

	cmd, err := builder.DryRun()
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}
	if !strings.HasPrefix(cmd, "ffmpeg") {
		t.Error("expected command to start with 'ffmpeg'")
	}
	if !strings.Contains(cmd, "/input/video.mp4") || !strings.Contains(cmd, "/output/mixed.mp4") {
		t.Error("expected input/output paths in command")
	}
}

func TestMixingBuilder_CommandInterface(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	builder.SetPriority(10)

	if builder.GetPriority() != 10 {
		t.Errorf("expected priority 10, got %d", builder.GetPriority())
	}
	if builder.GetTaskType() != command.TaskTypeMixing {
		t.Errorf("expected task type mixing, got %q", builder.GetTaskType())
	}
	if builder.GetInputPath() != "/input/video.mp4" {
		t.Error("expected input path to be video input")
	}
	if builder.GetOutputPath() != "/output/mixed.mp4" {
		t.Error("expected output path set")
	}
}

func TestMixingBuilder_RunWithoutExecContextErrors(t *testing.T) {
	builder := NewMixingBuilder("/input/video.mp4", "/output/mixed.mp4")
	if err := builder.Run(); err == nil {
		t.Error("expected error when Run is called without SetExecContext")
	}
}
