// Package clipworker processes a single planned SubclipWindow into a
// ProcessedClip: geometry fit, optional GPU scale fast path, transition,
// duration cap, and final encode.
package clipworker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"videopipeline/command/video"
	"videopipeline/ffmpeg"
	"videopipeline/models"
	"videopipeline/policy"
	"videopipeline/runner"
)

const gpuScaleTimeout = 300 * time.Second

// Worker processes subclip windows into encoded temp files. Safe for
// concurrent use: all state is passed per call, nothing is mutated after
// construction.
type Worker struct {
	run       *runner.Runner
	enc       *policy.EncoderPolicy
	verdict   models.CapabilityVerdict
	outputDir string
	transMode models.TransitionKind
}

// New builds a Worker bound to a Runner, an EncoderPolicy, the capability
// verdict driving the GPU scale fast path, the directory temp clips are
// written under, and the configured transition mode.
func New(run *runner.Runner, enc *policy.EncoderPolicy, verdict models.CapabilityVerdict, outputDir string, transMode models.TransitionKind) *Worker {
	return &Worker{run: run, enc: enc, verdict: verdict, outputDir: outputDir, transMode: transMode}
}

// Process runs window (the (index+1)'th window dispatched) against target
// geometry, writing {outputDir}/temp-clip-{index+1}.mp4. On any
// unrecoverable failure it logs the cause and returns (nil, false) rather
// than an error: a single failed window does not abort the pipeline.
func (w *Worker) Process(ctx context.Context, index int, window models.SubclipWindow, target models.TargetGeometry, maxClipDuration float64) (*models.ProcessedClip, bool) {
	outputPath := filepath.Join(w.outputDir, fmt.Sprintf("temp-clip-%d.mp4", index+1))

	clipW, clipH := window.SourceWidth, window.SourceHeight
	clipDuration := window.Duration()

	sourcePath := window.SourcePath
	scratchPath := ""
	defer func() {
		if scratchPath != "" {
			os.Remove(scratchPath)
		}
	}()

	if gpuScaleEligible(w.verdict, clipW, clipH, target.Width, target.Height) {
		if scaled, ok := w.tryGPUScale(ctx, window, target); ok {
			sourcePath = scaled
			scratchPath = scaled
			clipW, clipH = target.Width, target.Height
			window = models.SubclipWindow{SourcePath: sourcePath, Start: 0, End: clipDuration, SourceWidth: clipW, SourceHeight: clipH}
		}
	}

	if clipDuration > maxClipDuration {
		clipDuration = maxClipDuration
		window.End = window.Start + maxClipDuration
	}

	transition := resolveTransition(w.transMode)
	strategy, scaledW, scaledH := planFit(clipW, clipH, target.Width, target.Height)

	var attempt *video.VideoBuilder
	err := w.enc.EncodeClip(ctx, func(ctx context.Context, encoder string) error {
		attempt = video.NewVideoBuilder(sourcePath, window.Start, window.End, outputPath).
			SetCodec(models.DefaultCPUVideoCodec).
			SetFrameRate(models.DefaultFrameRate).
			SetExecContext(ctx, w.run)
		switch strategy {
		case fitDirectResize:
			attempt.AddDirectResize(target.Width, target.Height)
		case fitLetterbox:
			attempt.AddLetterbox(scaledW, scaledH, target.Width, target.Height)
		}
		if filter := transitionFilter(transition, target.Width, target.Height, clipDuration); filter != "" {
			attempt.AddCPUFilter(filter)
		}
		if encoder != models.DefaultCPUVideoCodec {
			attempt.SetHardwareEncoder(encoder, video.HWAccelNone)
		}
		return attempt.Run()
	})
	if err != nil {
		log.Printf("[clipworker] window %d (%s [%.2f,%.2f)) failed: %v", index, window.SourcePath, window.Start, window.End, err)
		return nil, false
	}

	if attempt != nil {
		stats := ffmpeg.NewStatsParser().ParseStderr(attempt.LastStderr(), clipDuration)
		log.Printf("[clipworker] window %d encoded: %s", index, stats.FormatSummary())
	}

	return &models.ProcessedClip{
		Path:     outputPath,
		Duration: clipDuration,
		Width:    target.Width,
		Height:   target.Height,
	}, true
}

// tryGPUScale serializes the decoded window to a scratch file using the
// GPU scale filter at a fast preset with no audio. On any failure it
// deletes the scratch file and reports ineligibility so the caller falls
// back to the CPU geometry-fit path.
func (w *Worker) tryGPUScale(ctx context.Context, window models.SubclipWindow, target models.TargetGeometry) (string, bool) {
	scratchPath := filepath.Join(w.outputDir, fmt.Sprintf("scratch-%s.mp4", uuid.NewString()))

	builder := video.NewVideoBuilder(window.SourcePath, window.Start, window.End, scratchPath).
		SetCodec(w.verdict.VideoEncoder).
		SetPreset("fast").
		SetCRF(23).
		SetFrameRate(models.DefaultFrameRate).
		SetTimeout(gpuScaleTimeout).
		SetExecContext(ctx, w.run)

	if w.verdict.IsGPUEncoder() {
		builder.SetHardwareEncoder(w.verdict.VideoEncoder, video.HWAccelNone)
	}
	builder.AddGPUScale(w.verdict.ScaleFilter, target.Width, target.Height)

	if err := builder.Run(); err != nil {
		log.Printf("[clipworker] gpu scale fast path failed for %s: %v", window.SourcePath, err)
		os.Remove(scratchPath)
		return "", false
	}
	return scratchPath, true
}
