// Package driver runs a bounded worker pool over the Subclip Planner's
// windows, dispatching only as many as the narration track actually
// needs and padding the result back out by looping successful clips.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"videopipeline/models"
)

// ClipProcessor processes one planned window into a ProcessedClip, or
// reports failure. It matches clipworker.Worker.Process's signature.
type ClipProcessor func(ctx context.Context, index int, window models.SubclipWindow, target models.TargetGeometry, maxClipDuration float64) (*models.ProcessedClip, bool)

// Run dispatches a bounded-parallelism prefix of windows through process,
// then loops successful clips to cover any shortfall against
// narrationDuration.
//
// Dispatch prefix: windows are walked in order and a prefix is taken such
// that cumulative planned duration does not yet exceed narrationDuration;
// only that prefix is ever processed.
//
// Pool size: W = max(1, min(cpu_count, len(prefix))).
//
// Result order: ascending original input index, with indices whose
// worker returned false dropped. If the surviving clips' total duration
// is still short of narrationDuration, the successful clips are appended
// again (by reference, not re-encoded) in that same order until the
// cumulative duration reaches narrationDuration.
func Run(ctx context.Context, windows []models.SubclipWindow, target models.TargetGeometry, maxClipDuration, narrationDuration float64, process ClipProcessor) ([]models.ProcessedClip, error) {
	prefix := dispatchPrefix(windows, maxClipDuration, narrationDuration)
	if len(prefix) == 0 {
		return nil, nil
	}

	workers := len(prefix)
	if cpu := runtime.NumCPU(); cpu < workers {
		workers = cpu
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]*models.ProcessedClip, len(prefix))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, window := range prefix {
		i, window := i, window
		g.Go(func() error {
			clip, ok := process(gctx, i, window, target, maxClipDuration)
			if ok {
				results[i] = clip
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ordered []models.ProcessedClip
	for _, clip := range results {
		if clip != nil {
			ordered = append(ordered, *clip)
		}
	}

	return padToNarrationDuration(ordered, narrationDuration), nil
}

// dispatchPrefix takes the longest prefix of windows whose cumulative
// planned duration does not yet exceed narrationDuration.
func dispatchPrefix(windows []models.SubclipWindow, maxClipDuration, narrationDuration float64) []models.SubclipWindow {
	var cumulative float64
	for i, w := range windows {
		if cumulative >= narrationDuration {
			return windows[:i]
		}
		cumulative += w.Duration()
	}
	return windows
}

// padToNarrationDuration cycles through successful clips in order,
// appending references until the cumulative duration reaches
// narrationDuration. If clips is empty, there is nothing to loop with.
func padToNarrationDuration(clips []models.ProcessedClip, narrationDuration float64) []models.ProcessedClip {
	if len(clips) == 0 {
		return clips
	}

	var total float64
	for _, c := range clips {
		total += c.Duration
	}

	result := append([]models.ProcessedClip(nil), clips...)
	for i := 0; total < narrationDuration; i = (i + 1) % len(clips) {
		result = append(result, clips[i])
		total += clips[i].Duration
	}
	return result
}
