package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videopipeline/models"
)

func baseStyle() models.SubtitleStyle {
	return models.SubtitleStyle{
		FontFile:              "",
		FontSizeBase:          60,
		StrokeWidthBase:       2,
		ForeColorHex:          "#FF8800",
		StrokeColorHex:        "#000000",
		Position:              models.PositionTop,
		CustomPositionPercent: 0,
	}
}

func TestTranscode_ScalesFontSizeForNonBaseHeight(t *testing.T) {
	path := writeTempSRT(t, "1\n00:00:01,000 --> 00:00:02,500\nHello {world}\n\n")

	doc, err := Transcode(path, 700, 1248, baseStyle())
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if !strings.Contains(doc, "Style: Default,Arial,62,") {
		t.Errorf("expected fontsize 62 in style line, got:\n%s", doc)
	}
	if !strings.Contains(doc, `Hello \{world\}`) {
		t.Errorf("expected escaped braces in dialogue text, got:\n%s", doc)
	}
	if !strings.Contains(doc, "PlayResX: 700") || !strings.Contains(doc, "PlayResY: 1248") {
		t.Errorf("expected PlayRes bound to target geometry, got:\n%s", doc)
	}
}

func TestTranscode_TopPositionAtBaseHeight(t *testing.T) {
	path := writeTempSRT(t, "1\n00:00:00,000 --> 00:00:01,000\nHi\n\n")

	doc, err := Transcode(path, 1080, 1920, baseStyle())
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if !strings.Contains(doc, "&H0088FF&") {
		t.Errorf("expected converted fore color, got:\n%s", doc)
	}
	if !strings.Contains(doc, ",8,10,10,96,1") {
		t.Errorf("expected alignment 8 and marginV 96, got:\n%s", doc)
	}
}

func TestTranscode_NoCuesReturnsError(t *testing.T) {
	path := writeTempSRT(t, "")

	_, err := Transcode(path, 1080, 1920, baseStyle())
	if err != models.ErrNoCues {
		t.Errorf("expected ErrNoCues, got %v", err)
	}
}

func TestTranscode_MissingFontReturnsFontMissing(t *testing.T) {
	path := writeTempSRT(t, "1\n00:00:00,000 --> 00:00:01,000\nHi\n\n")
	style := baseStyle()
	style.FontFile = "/nonexistent/font.ttf"

	_, err := Transcode(path, 1080, 1920, style)
	if err != models.ErrFontMissing {
		t.Errorf("expected ErrFontMissing, got %v", err)
	}
}

func TestFontSize(t *testing.T) {
	if got := fontSize(1920, 60); got != 60 {
		t.Errorf("fontSize(1920, 60) = %d, want 60", got)
	}
	if got := fontSize(1920, 10); got != 40 {
		t.Errorf("fontSize(1920, 10) = %d, want 40 (floor)", got)
	}
}

func TestStrokeWidth(t *testing.T) {
	if got := strokeWidth(1920, 2); got != 2 {
		t.Errorf("strokeWidth(1920, 2) = %d, want 2", got)
	}
	if got := strokeWidth(1920, 20); got != 10 {
		t.Errorf("strokeWidth(1920, 20) = %d, want 10 (ceiling)", got)
	}
}

func TestAlignmentAndMargin(t *testing.T) {
	align, margin := alignmentAndMargin(models.PositionBottom, 1920, 60, 0)
	if align != 2 || margin != 96 {
		t.Errorf("bottom: got alignment=%d marginV=%d, want 2,96", align, margin)
	}
	align, margin = alignmentAndMargin(models.PositionCenter, 1920, 60, 0)
	if align != 5 || margin != 0 {
		t.Errorf("center: got alignment=%d marginV=%d, want 5,0", align, margin)
	}
}

func TestWriteASSFile_HasBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ass")
	if err := WriteASSFile("[Script Info]\n", path); err != nil {
		t.Fatalf("WriteASSFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if data[0] != 0xEF || data[1] != 0xBB || data[2] != 0xBF {
		t.Errorf("expected UTF-8 BOM prefix, got %v", data[:3])
	}
}

func TestEscapeText(t *testing.T) {
	in := "a\\b{c}d\ne"
	want := `a\\b\{c\}d\Ne`
	if got := escapeText(in); got != want {
		t.Errorf("escapeText(%q) = %q, want %q", in, got, want)
	}
}
