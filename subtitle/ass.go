package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"videopipeline/models"
)

const playResBase = 1920.0

// Transcode converts an SRT file into a styled ASS document string, ready to
// be written to disk by the caller. width/height is the target geometry the
// document's PlayRes is bound to.
func Transcode(srtPath string, width, height int, style models.SubtitleStyle) (string, error) {
	cues, err := ParseSRT(srtPath)
	if err != nil {
		return "", err
	}
	if len(cues) == 0 {
		return "", models.ErrNoCues
	}

	family, err := ResolveFontFamily(style.FontFile)
	if err != nil {
		return "", err
	}

	size := fontSize(height, style.FontSizeBase)
	outline := strokeWidth(height, style.StrokeWidthBase)
	alignment, marginV := alignmentAndMargin(style.Position, height, size, style.CustomPositionPercent)

	fore := HexToASSColor(style.ForeColorHex)
	stroke := HexToASSColor(style.StrokeColorHex)
	back := "&H000000&"
	if style.BGColorHex != "" {
		back = HexToASSColor(style.BGColorHex)
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("Title: Subtitle\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", width)
	fmt.Fprintf(&b, "PlayResY: %d\n\n", height)

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour,\n")
	b.WriteString("        Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle,\n")
	b.WriteString("        BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,&HFFFFFF&,%s,%s,\n", family, size, fore, stroke, back)
	fmt.Fprintf(&b, "        0,0,0,0,100,100,0,0,1,%d,0,%d,10,10,%d,1\n\n", outline, alignment, marginV)

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		start := SRTTimeToASSTime(secondsToSRTTime(cue.Start))
		end := SRTTimeToASSTime(secondsToSRTTime(cue.End))
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", start, end, escapeText(cue.Text))
	}

	return b.String(), nil
}

// WriteASSFile writes doc to path with a UTF-8 BOM prefix, the encoding the
// media tool expects ASS subtitle files to carry.
func WriteASSFile(doc string, path string) error {
	bom := []byte{0xEF, 0xBB, 0xBF}
	return os.WriteFile(path, append(bom, []byte(doc)...), 0o644)
}

// FontSizeForHeight exposes the font-size scaling formula for callers that
// need it outside a full Transcode (the Final Muxer's composite overlay
// fallback computes drawtext sizes the same way the burned-in ASS would).
func FontSizeForHeight(height, base int) int { return fontSize(height, base) }

// StrokeWidthForHeight exposes the stroke-scaling formula; see FontSizeForHeight.
func StrokeWidthForHeight(height, base int) int { return strokeWidth(height, base) }

// AlignmentMarginForHeight exposes the alignment/marginV formula; see FontSizeForHeight.
func AlignmentMarginForHeight(position models.SubtitlePosition, height, size int, customPercent float64) (alignment, marginV int) {
	return alignmentAndMargin(position, height, size, customPercent)
}

func fontSize(height, base int) int {
	if height == 1920 {
		return maxInt(40, base)
	}
	scale := float64(height) / playResBase
	lo := maxInt(40, int(float64(height)*0.05))
	hi := 200
	return clampInt(lo, int(float64(base)*scale), hi)
}

func strokeWidth(height, base int) int {
	if height == 1920 {
		return clampInt(1, base, 10)
	}
	scale := float64(height) / playResBase
	return clampInt(1, int(float64(base)*scale), 10)
}

func alignmentAndMargin(position models.SubtitlePosition, height, size int, customPercent float64) (alignment, marginV int) {
	switch position {
	case models.PositionTop:
		return 8, int(float64(height) * 0.05)
	case models.PositionBottom:
		return 2, int(float64(height) * 0.05)
	case models.PositionCenter:
		return 5, 0
	case models.PositionCustom:
		lo := 10
		hi := height - size - 10
		v := int(float64(height-size) * customPercent / 100)
		return 5, clampInt(lo, v, hi)
	default:
		return 5, 0
	}
}

func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "{", `\{`)
	text = strings.ReplaceAll(text, "}", `\}`)
	text = strings.ReplaceAll(text, "\n", `\N`)
	return text
}

func secondsToSRTTime(seconds float64) string {
	totalMs := int(seconds*1000 + 0.5)
	hours := totalMs / 3600000
	totalMs -= hours * 3600000
	minutes := totalMs / 60000
	totalMs -= minutes * 60000
	secs := totalMs / 1000
	ms := totalMs - secs*1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(lo, v, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FontsDir returns the directory containing the configured font file, for
// use as the ass filter's fontsdir argument.
func FontsDir(fontFile string) string {
	if fontFile == "" {
		return ""
	}
	return filepath.Dir(fontFile)
}
