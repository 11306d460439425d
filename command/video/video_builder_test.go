package video

import (
	"strings"
	"testing"
)

func TestNewVideoBuilder_Defaults(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")

	if builder.sourcePath != "/input/test.mp4" {
		t.Errorf("expected source path set, got %q", builder.sourcePath)
	}
	if builder.outputPath != "/output/test.mp4" {
		t.Errorf("expected output path '/output/test.mp4', got %q", builder.outputPath)
	}
	if builder.codec != "libx264" {
		t.Errorf("expected default codec 'libx264', got %q", builder.codec)
	}
	if builder.priority != 5 {
		t.Errorf("expected default priority 5, got %d", builder.priority)
	}
}

func TestVideoBuilder_SoftwareEncoding(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")
	builder.SetCodec("libx264").SetCRF(23).SetPreset("medium")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if strings.Contains(argsStr, "-hwaccel") {
		t.Error("software encoding should not have -hwaccel")
	}
	if !strings.Contains(argsStr, "-c:v libx264") {
		t.Error("expected libx264 codec")
	}
	if !strings.Contains(argsStr, "-crf 23") {
		t.Error("expected CRF 23")
	}
	if !strings.Contains(argsStr, "-ss 00:00:00.00") || !strings.Contains(argsStr, "-to 00:00:10.00") {
		t.Errorf("expected formatted window bounds, got %s", argsStr)
	}
}

func TestVideoBuilder_HardwareEncoding_NVENC(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")
	builder.SetHardwareEncoder("h264_nvenc", HWAccelNVENC).SetPreset("p4")

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-hwaccel cuda") {
		t.Error("expected -hwaccel cuda for NVENC")
	}
	if !strings.Contains(argsStr, "-c:v h264_nvenc") {
		t.Error("expected h264_nvenc encoder")
	}
	if strings.Contains(argsStr, "-crf") {
		t.Error("hardware encoder path should not add -crf")
	}
}

func TestVideoBuilder_Letterbox(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")
	builder.AddLetterbox(1080, 608, 1080, 1920)

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-vf") {
		t.Error("expected -vf filter flag")
	}
	if !strings.Contains(argsStr, "scale=1080:608") {
		t.Error("expected scale filter for letterbox")
	}
	if !strings.Contains(argsStr, "pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black") {
		t.Error("expected centered pad filter")
	}
}

func TestVideoBuilder_GPUScale_WithUploadPivot(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")
	builder.SetHardwareEncoder("h264_nvenc", HWAccelNVENC).
		AddGPUScale("scale_npp", 1080, 1920)

	args := builder.BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "hwupload_cuda") {
		t.Error("expected hwupload_cuda pivot before GPU scale")
	}
	if !strings.Contains(argsStr, "scale_npp=1080:1920") {
		t.Error("expected scale_npp filter")
	}
}

func TestVideoBuilder_ExtraArgsAndDryRun(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 5.5, 15.75, "/output/test.mp4")
	builder.AddExtraArgs("-movflags", "+faststart")

	cmd, err := builder.DryRun()
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}
	if !strings.HasPrefix(cmd, "ffmpeg") {
		t.Error("expected command to start with 'ffmpeg'")
	}
	if !strings.Contains(cmd, "-movflags +faststart") {
		t.Error("expected movflags argument")
	}
	if !strings.Contains(cmd, "/input/test.mp4") || !strings.Contains(cmd, "/output/test.mp4") {
		t.Error("expected input/output paths in command")
	}
}

func TestVideoBuilder_CommandInterface(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")
	builder.SetPriority(10)

	if builder.GetPriority() != 10 {
		t.Errorf("expected priority 10, got %d", builder.GetPriority())
	}
	if builder.GetTaskType() != "video" {
		t.Errorf("expected task type 'video', got %q", builder.GetTaskType())
	}
	if builder.GetInputPath() != "/input/test.mp4" {
		t.Errorf("expected input path '/input/test.mp4', got %q", builder.GetInputPath())
	}
	if builder.GetOutputPath() != "/output/test.mp4" {
		t.Errorf("expected output path '/output/test.mp4', got %q", builder.GetOutputPath())
	}
}

func TestVideoBuilder_RunWithoutExecContextErrors(t *testing.T) {
	builder := NewVideoBuilder("/input/test.mp4", 0.0, 10.0, "/output/test.mp4")
	if err := builder.Run(); err == nil {
		t.Error("expected error when Run is called without SetExecContext")
	}
}
