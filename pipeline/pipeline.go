// Package pipeline exposes the composition pipeline's three entry points:
// Combine (assemble sources into one silent combined video), Finalize (mix
// audio and subtitles into a combined video to produce the final output),
// and Preprocess (turn still images into zooming clips ahead of Combine).
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"videopipeline/capability"
	"videopipeline/clipworker"
	"videopipeline/command/video"
	"videopipeline/concatenator"
	"videopipeline/driver"
	"videopipeline/ffprobe"
	"videopipeline/models"
	"videopipeline/muxer"
	"videopipeline/planner"
	"videopipeline/policy"
	"videopipeline/runner"
)

// minPreprocessDimension is the smallest source width/height Preprocess
// will turn into a zooming clip; smaller sources are skipped outright.
const minPreprocessDimension = 480

// zoomRate is the per-second zoom-in rate applied by Preprocess, matching
// the documented 1 + 0.03*clip_duration*(t/duration) formula.
const zoomRate = 0.03

// CombineOptions configures one Combine call.
type CombineOptions struct {
	Aspect          string
	ConcatMode      planner.ConcatMode
	TransitionMode  models.TransitionKind
	MaxClipDuration float64
	Threads         int
}

// Combine plans subclip windows across sources, processes them in
// parallel into ProcessedClips, and concatenates the result into output.
// Returns the written output path.
func Combine(ctx context.Context, run *runner.Runner, output string, sources []string, narrationAudioPath string, opts CombineOptions) (string, error) {
	ffmpegPath, err := run.ResolveFFmpeg()
	if err != nil {
		return "", err
	}
	verdict := capability.Probe(ffmpegPath)
	enc := policy.New(verdict)
	prober := ffprobe.New(run)

	_, _, narrationDuration, err := prober.ProbeDimensions(ctx, narrationAudioPath)
	if err != nil {
		return "", fmt.Errorf("probing narration audio: %w", err)
	}

	windows, err := planner.Plan(ctx, prober, sources, opts.MaxClipDuration, opts.ConcatMode)
	if err != nil {
		return "", err
	}

	target := models.ResolveAspect(opts.Aspect, windows)
	outputDir := filepath.Dir(output)

	worker := clipworker.New(run, enc, verdict, outputDir, opts.TransitionMode)
	clips, err := driver.Run(ctx, windows, target, opts.MaxClipDuration, narrationDuration, worker.Process)
	if err != nil {
		return "", err
	}

	concat := concatenator.New(run, enc)
	if err := concat.Concatenate(ctx, clips, output); err != nil {
		if err == models.ErrNoClips {
			return output, nil
		}
		return "", err
	}

	return output, nil
}

// FinalizeParams mirrors the entry point's documented parameter bag.
type FinalizeParams = muxer.Params

// Finalize mixes narration/BGM audio and subtitles into videoPath,
// producing outputPath.
func Finalize(ctx context.Context, run *runner.Runner, videoPath, narrationAudioPath, subtitlePath, outputPath string, params FinalizeParams) error {
	ffmpegPath, err := run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	verdict := capability.Probe(ffmpegPath)
	enc := policy.New(verdict)
	prober := ffprobe.New(run)

	m := muxer.New(run, enc, prober, filepath.Dir(outputPath))
	return m.Finalize(ctx, videoPath, narrationAudioPath, subtitlePath, outputPath, params)
}

// Preprocess turns each still image in materials into a clipDuration-second
// zooming clip and rewrites its entry to the produced .mp4 path. Sources
// below minPreprocessDimension on either axis are left untouched. Returns
// the rewritten slice; Combine treats materials and produced clips
// identically as source paths.
func Preprocess(ctx context.Context, run *runner.Runner, materials []string, clipDuration float64, outputDir string) ([]string, error) {
	prober := ffprobe.New(run)
	result := make([]string, len(materials))

	for i, path := range materials {
		width, height, _, err := prober.ProbeDimensions(ctx, path)
		if err != nil {
			log.Printf("[pipeline] preprocess: probing %s failed (%v), leaving source untouched", path, err)
			result[i] = path
			continue
		}
		if width < minPreprocessDimension || height < minPreprocessDimension {
			result[i] = path
			continue
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("preprocessed-%s.mp4", uuid.NewString()))
		if err := zoomClip(ctx, run, path, outPath, clipDuration); err != nil {
			log.Printf("[pipeline] preprocess: zoompan failed for %s (%v), leaving source untouched", path, err)
			result[i] = path
			continue
		}
		result[i] = outPath
	}

	return result, nil
}

// zoomClip drives ffmpeg's zoompan filter to produce a clipDuration-second
// linear Ken-Burns zoom from a still image, equivalent to the documented
// 1 + 0.03*clip_duration*(t/duration) per-frame affine zoom without a
// manual per-frame decode/resize loop.
func zoomClip(ctx context.Context, run *runner.Runner, sourcePath, outputPath string, clipDuration float64) error {
	frames := int(clipDuration * float64(models.DefaultFrameRate))
	if frames < 1 {
		frames = 1
	}
	zoomStep := zoomRate * clipDuration / float64(frames)

	builder := video.NewVideoBuilder(sourcePath, 0, clipDuration, outputPath).
		SetFrameRate(models.DefaultFrameRate).
		SetTimeout(120*time.Second).
		SetExecContext(ctx, run)

	zoompan := fmt.Sprintf(
		"zoompan=z='min(zoom+%g,1+%g)':d=%d:s=hd1080:fps=%d",
		zoomStep, zoomRate*clipDuration, frames, models.DefaultFrameRate,
	)
	builder.AddCPUFilter(zoompan)

	return builder.Run()
}
