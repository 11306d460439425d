// Package muxer implements the Final Muxer: it mixes narration and
// optional background music into a composite audio track, muxes it against
// the combined silent video, and selects between burning a styled ASS
// subtitle document in and a per-cue composite text overlay, falling back
// from the former to the latter on failure.
package muxer

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"videopipeline/capability"
	"videopipeline/command/audio"
	"videopipeline/command/mixing"
	subtitlecmd "videopipeline/command/subtitle"
	"videopipeline/ffprobe"
	"videopipeline/models"
	"videopipeline/policy"
	"videopipeline/runner"
	"videopipeline/subtitle"
)

// Params carries every Finalize parameter from the entry point's contract
// beyond the four path arguments (video, narration, subtitle, output).
type Params struct {
	Aspect string

	SubtitleEnabled bool
	Style           models.SubtitleStyle

	BGMMode   models.BGMMode
	BGMFile   string // used when BGMMode == BGMFile
	BGMDir    string // globbed when BGMMode == BGMRandom
	BGMVolume float64

	VoiceVolume float64
	Threads     int
}

// Muxer runs the Final Muxer stage against a Runner/EncoderPolicy pair
// shared with the rest of the pipeline.
type Muxer struct {
	run       *runner.Runner
	enc       *policy.EncoderPolicy
	prober    *ffprobe.Prober
	outputDir string // temps are written alongside the final output, per dirname(output)
}

// New builds a Muxer. outputDir is the directory temp files are created
// in; the caller is expected to pass dirname(output) of the eventual
// Finalize call.
func New(run *runner.Runner, enc *policy.EncoderPolicy, prober *ffprobe.Prober, outputDir string) *Muxer {
	return &Muxer{run: run, enc: enc, prober: prober, outputDir: outputDir}
}

// Finalize mixes audio, muxes it with videoPath, and burns or composites
// subtitlePath in per Params, writing the result to outputPath.
func (m *Muxer) Finalize(ctx context.Context, videoPath, narrationAudioPath, subtitlePath, outputPath string, params Params) error {
	width, height, duration, err := m.prober.ProbeDimensions(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("probing combined video: %w", err)
	}

	audioPath, cleanupAudio, err := m.mixAudio(ctx, narrationAudioPath, duration, params)
	if err != nil {
		return fmt.Errorf("mixing audio: %w", err)
	}
	defer cleanupAudio()

	mergedPath := m.tempPath("temp_no_subtitle") + ".mp4"
	defer os.Remove(mergedPath)

	mux := mixing.NewMixingBuilder(videoPath, mergedPath).
		AddAudioTrack(audioPath).
		SetExecContext(ctx, m.run)
	if err := mux.Run(); err != nil {
		return fmt.Errorf("muxing video and audio: %w", err)
	}

	if params.SubtitleEnabled && subtitlePath != "" {
		return m.applySubtitles(ctx, mergedPath, subtitlePath, outputPath, width, height, params)
	}

	return copyFile(mergedPath, outputPath)
}

// mixAudio builds the composite audio track (narration, optionally mixed
// with a resolved BGM track) and returns its temp path and a cleanup func.
func (m *Muxer) mixAudio(ctx context.Context, narrationPath string, videoDuration float64, params Params) (string, func(), error) {
	outPath := m.tempPath("temp-audio") + ".m4a"
	cleanup := func() { os.Remove(outPath) }

	bgmPath := m.resolveBGM(params)

	builder := audio.NewAudioBuilder(narrationPath, params.VoiceVolume, outPath).SetExecContext(ctx, m.run)
	if bgmPath != "" {
		builder.AddBGM(bgmPath, params.BGMVolume, videoDuration)
	}

	if err := builder.Run(); err != nil {
		if bgmPath == "" {
			return "", cleanup, err
		}
		// A failed BGM mix falls back to narration alone rather than
		// failing the whole mux, matching the original's silent-fallthrough
		// when no BGM file resolves.
		log.Printf("[muxer] bgm mix failed (%v), falling back to narration-only audio", err)
		plain := audio.NewAudioBuilder(narrationPath, params.VoiceVolume, outPath).SetExecContext(ctx, m.run)
		if err := plain.Run(); err != nil {
			return "", cleanup, err
		}
	}

	return outPath, cleanup, nil
}

// resolveBGM picks the background track path per params.BGMMode: the
// caller-supplied file, a pseudo-random pick from BGMDir, or none.
func (m *Muxer) resolveBGM(params Params) string {
	switch params.BGMMode {
	case models.BGMFile:
		return params.BGMFile
	case models.BGMRandom:
		entries, err := os.ReadDir(params.BGMDir)
		if err != nil || len(entries) == 0 {
			return ""
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, filepath.Join(params.BGMDir, e.Name()))
			}
		}
		if len(files) == 0 {
			return ""
		}
		return files[rand.IntN(len(files))]
	default:
		return ""
	}
}

// applySubtitles transcodes subtitlePath and attempts the burn path,
// falling back to the composite overlay path on any burn failure.
func (m *Muxer) applySubtitles(ctx context.Context, mergedPath, subtitlePath, outputPath string, width, height int, params Params) error {
	doc, err := subtitle.Transcode(subtitlePath, width, height, params.Style)
	if err != nil {
		log.Printf("[muxer] subtitle transcode failed (%v), disabling subtitles for this run", err)
		return copyFile(mergedPath, outputPath)
	}

	ffmpegPath, _ := m.run.ResolveFFmpeg()
	assPath := m.tempPath("subtitle") + ".ass"
	if err := subtitle.WriteASSFile(doc, assPath); err != nil {
		return fmt.Errorf("writing ass file: %w", err)
	}

	if capability.FilterSupported(ffmpegPath, "ass") {
		burn := subtitlecmd.NewBurnBuilder(mergedPath, assPath, subtitle.FontsDir(params.Style.FontFile), outputPath).
			SetThreads(params.Threads).
			SetEncoder(m.enc.VideoEncoder()).
			SetExecContext(ctx, m.run)

		err := m.enc.EncodeClip(ctx, func(ctx context.Context, encoder string) error {
			burn.SetEncoder(encoder)
			return burn.Run()
		})
		if err == nil {
			os.Remove(assPath)
			return nil
		}
		log.Printf("[muxer] ass burn failed (%v), falling back to composite overlay; ass retained at %s", err, assPath)
	}

	return m.compositeOverlay(ctx, mergedPath, subtitlePath, outputPath, height, params)
}

// compositeOverlay renders each cue as a styled drawtext overlay, the
// fallback subtitle path when burning the ASS document fails.
func (m *Muxer) compositeOverlay(ctx context.Context, mergedPath, subtitlePath, outputPath string, height int, params Params) error {
	cues, err := subtitle.ParseSRT(subtitlePath)
	if err != nil {
		log.Printf("[muxer] composite overlay: re-reading cues failed (%v), disabling subtitles for this run", err)
		return copyFile(mergedPath, outputPath)
	}

	style := params.Style
	size := subtitle.FontSizeForHeight(height, style.FontSizeBase)
	stroke := subtitle.StrokeWidthForHeight(height, style.StrokeWidthBase)
	_, marginV := subtitle.AlignmentMarginForHeight(style.Position, height, size, style.CustomPositionPercent)
	x, y := drawtextPosition(style.Position, marginV)

	composite := make([]subtitlecmd.CompositeCue, len(cues))
	for i, cue := range cues {
		composite[i] = subtitlecmd.CompositeCue{Text: cue.Text, Start: cue.Start, End: cue.End}
	}

	builder := subtitlecmd.NewCompositeBuilder(mergedPath, outputPath, composite).
		SetStyle(style.FontFile, size, ffmpegColorName(style.ForeColorHex), ffmpegColorName(style.StrokeColorHex), stroke).
		SetPosition(x, y).
		SetEncoder(m.enc.VideoEncoder()).
		SetExecContext(ctx, m.run)

	return m.enc.EncodeClip(ctx, func(ctx context.Context, encoder string) error {
		builder.SetEncoder(encoder)
		return builder.Run()
	})
}

// drawtextPosition returns the ffmpeg drawtext x/y expressions that are
// the pixel-space equivalent of the ASS alignment/marginV rules: centered
// horizontally in all cases, vertical anchor varying by position.
func drawtextPosition(position models.SubtitlePosition, marginV int) (x, y string) {
	x = "(w-text_w)/2"
	switch position {
	case models.PositionTop:
		y = fmt.Sprintf("%d", marginV)
	case models.PositionBottom:
		y = fmt.Sprintf("h-text_h-%d", marginV)
	case models.PositionCustom:
		y = fmt.Sprintf("%d", marginV)
	default: // center
		y = "(h-text_h)/2"
	}
	return x, y
}

// ffmpegColorName converts a "#RRGGBB" hex color to the "0xRRGGBB" form
// ffmpeg's drawtext fontcolor/bordercolor options expect.
func ffmpegColorName(hex string) string {
	hex = strings.TrimSpace(hex)
	if len(hex) == 7 && hex[0] == '#' {
		return "0x" + hex[1:]
	}
	return "white"
}

func (m *Muxer) tempPath(name string) string {
	return filepath.Join(m.outputDir, fmt.Sprintf("%s-%s", name, uuid.NewString()))
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
