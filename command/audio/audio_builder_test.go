package audio

import (
	"strings"
	"testing"
)

func TestNewAudioBuilder_Defaults(t *testing.T) {
	builder := NewAudioBuilder("/input/narration.wav", 1.0, "/output/audio.m4a")

	if builder.narrationPath != "/input/narration.wav" {
		t.Errorf("expected narration path set, got %q", builder.narrationPath)
	}
	if builder.outputPath != "/output/audio.m4a" {
		t.Errorf("expected output path set, got %q", builder.outputPath)
	}
	if builder.codec != "aac" {
		t.Errorf("expected default codec 'aac', got %q", builder.codec)
	}
}

func TestAudioBuilder_NarrationOnly(t *testing.T) {
	builder := NewAudioBuilder("/input/narration.wav", 0.8, "/output/audio.m4a")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-i /input/narration.wav") {
		t.Error("expected narration as input")
	}
	if !strings.Contains(argsStr, "volume=0.8") {
		t.Error("expected narration volume filter")
	}
	if strings.Contains(argsStr, "amix") {
		t.Error("no amix expected without BGM")
	}
}

func TestAudioBuilder_WithBGM_MixesAndFadesAndLoops(t *testing.T) {
	builder := NewAudioBuilder("/input/narration.wav", 1.0, "/output/audio.m4a")
	builder.AddBGM("/input/bgm.mp3", 0.3, 30.0)

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-stream_loop -1") {
		t.Error("expected BGM to be looped")
	}
	if !strings.Contains(argsStr, "afade=t=out:st=27:d=3") {
		t.Errorf("expected 3s fade-out starting at 27s, got %s", argsStr)
	}
	if !strings.Contains(argsStr, "amix=inputs=2") {
		t.Error("expected amix of narration and BGM")
	}
	if !strings.Contains(argsStr, "volume=0.3") {
		t.Error("expected BGM volume filter")
	}
}

func TestAudioBuilder_RunWithoutExecContextErrors(t *testing.T) {
	builder := NewAudioBuilder("/input/narration.wav", 1.0, "/output/audio.m4a")
	if err := builder.Run(); err == nil {
		t.Error("expected error when Run is called without SetExecContext")
	}
}

func TestAudioBuilder_DryRun(t *testing.T) {
	builder := NewAudioBuilder("/input/narration.wav", 1.0, "/output/audio.m4a")
	cmd, err := builder.DryRun()
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	if !strings.HasPrefix(cmd, "ffmpeg") {
		t.Error("expected command to start with ffmpeg")
	}
}
