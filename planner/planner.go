// Package planner slices source clips into fixed-duration subclip windows
// and arranges them per the requested concatenation mode.
package planner

import (
	"context"
	"fmt"
	"math/rand/v2"

	"videopipeline/models"
)

// Prober reads the duration and frame size of a source file. The Media
// Runner-backed implementation lives in the probe/ffprobe layer; the
// planner only needs this narrow slice of it.
type Prober interface {
	ProbeDimensions(ctx context.Context, path string) (width, height int, duration float64, err error)
}

// ConcatMode selects how windows from multiple sources are arranged.
type ConcatMode string

const (
	ModeSequential ConcatMode = "sequential"
	ModeRandom     ConcatMode = "random"
)

// Plan computes the ordered list of SubclipWindows for a set of source
// paths under a fixed max clip duration and concat mode.
//
// For each source, non-overlapping windows of exactly maxClipDuration are
// emitted starting at 0; the loop stops as soon as the remainder is
// shorter than one full window, so a source never contributes a partial
// window. In sequential mode only the first window of each source
// survives; in random mode every window from every source is kept, then
// the full list is shuffled with a uniform random permutation.
func Plan(ctx context.Context, prober Prober, sources []string, maxClipDuration float64, mode ConcatMode) ([]models.SubclipWindow, error) {
	if maxClipDuration <= 0 {
		return nil, fmt.Errorf("%w: max clip duration must be positive", models.ErrProbe)
	}

	var windows []models.SubclipWindow

	for _, src := range sources {
		w, h, duration, err := prober.ProbeDimensions(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%w: probing %s: %v", models.ErrProbe, src, err)
		}

		sourceWindows := windowsFor(src, w, h, duration, maxClipDuration)
		if len(sourceWindows) == 0 {
			continue
		}

		if mode == ModeSequential {
			windows = append(windows, sourceWindows[0])
		} else {
			windows = append(windows, sourceWindows...)
		}
	}

	if mode == ModeRandom {
		shuffle(windows)
	}

	return windows, nil
}

// windowsFor emits every full-length, non-overlapping window a single
// source supports: [0,d), [d,2d), ... stopping once the remainder is
// shorter than one full window. The final partial remainder, if any, is
// discarded rather than emitted short.
func windowsFor(source string, w, h int, duration, windowLen float64) []models.SubclipWindow {
	var out []models.SubclipWindow
	for start := 0.0; start+windowLen <= duration; start += windowLen {
		out = append(out, models.SubclipWindow{
			SourcePath:   source,
			Start:        start,
			End:          start + windowLen,
			SourceWidth:  w,
			SourceHeight: h,
		})
	}
	return out
}

// shuffle applies a uniform random (Fisher-Yates) permutation in place,
// using the package-level math/rand/v2 source rather than a caller-seeded
// one: runs are not required to be reproducible across invocations.
func shuffle(windows []models.SubclipWindow) {
	for i := len(windows) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		windows[i], windows[j] = windows[j], windows[i]
	}
}
