package pipeline

import (
	"context"
	"testing"

	"videopipeline/runner"
)

func TestPreprocess_MissingSourceLeftUntouched(t *testing.T) {
	r := runner.New("/nonexistent/ffmpeg-binary-for-tests", "/nonexistent/ffprobe-binary-for-tests")
	out, err := Preprocess(context.Background(), r, []string{"/does/not/exist.jpg"}, 4.0, t.TempDir())
	if err != nil {
		t.Fatalf("Preprocess returned error: %v", err)
	}
	if len(out) != 1 || out[0] != "/does/not/exist.jpg" {
		t.Errorf("expected source left untouched when probing fails, got %v", out)
	}
}

func TestPreprocess_EmptyMaterials(t *testing.T) {
	r := runner.New("/nonexistent/ffmpeg-binary-for-tests", "/nonexistent/ffprobe-binary-for-tests")
	out, err := Preprocess(context.Background(), r, nil, 4.0, t.TempDir())
	if err != nil {
		t.Fatalf("Preprocess returned error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty result for empty materials, got %v", out)
	}
}

func TestZoomClip_BuildsNonEmptyArgs(t *testing.T) {
	r := runner.New("/nonexistent/ffmpeg-binary-for-tests", "/nonexistent/ffprobe-binary-for-tests")
	err := zoomClip(context.Background(), r, "/tmp/source.jpg", "/tmp/out.mp4", 4.0)
	// The binary doesn't exist, so Run is expected to fail at spawn time;
	// this exercises BuildArgs/filter construction without requiring a
	// real ffmpeg on PATH.
	if err == nil {
		t.Fatal("expected an error since the configured ffmpeg binary does not exist")
	}
}
