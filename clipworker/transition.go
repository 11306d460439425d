package clipworker

import (
	"fmt"
	"math/rand/v2"

	"videopipeline/models"
)

// pickSide uniformly chooses one of the four transition sides.
func pickSide() models.Side {
	sides := []models.Side{models.SideLeft, models.SideRight, models.SideTop, models.SideBottom}
	return sides[rand.IntN(len(sides))]
}

// resolveTransition turns the configured transition mode into a concrete
// Transition, uniformly picking a side and, for "shuffle", uniformly
// picking among the other four kinds sharing that same side.
func resolveTransition(mode models.TransitionKind) models.Transition {
	side := pickSide()
	kind := mode
	if mode == models.TransitionShuffle {
		kinds := []models.TransitionKind{
			models.TransitionFadeIn, models.TransitionFadeOut,
			models.TransitionSlideIn, models.TransitionSlideOut,
		}
		kind = kinds[rand.IntN(len(kinds))]
	}
	return models.Transition{Kind: kind, Side: side}
}

// transitionFilter returns the ffmpeg video filter expression for a
// resolved transition applied to a clip of the given duration and frame
// size, or "" for the identity (none) case.
func transitionFilter(t models.Transition, width, height int, duration float64) string {
	const fadeSeconds = 1.0

	switch t.Kind {
	case models.TransitionNone:
		return ""
	case models.TransitionFadeIn:
		return fmt.Sprintf("fade=t=in:st=0:d=%.2f", fadeSeconds)
	case models.TransitionFadeOut:
		start := duration - fadeSeconds
		if start < 0 {
			start = 0
		}
		return fmt.Sprintf("fade=t=out:st=%.2f:d=%.2f", start, fadeSeconds)
	case models.TransitionSlideIn:
		return slideFilter(t.Side, width, height, 0, fadeSeconds, true)
	case models.TransitionSlideOut:
		start := duration - fadeSeconds
		if start < 0 {
			start = 0
		}
		return slideFilter(t.Side, width, height, start, fadeSeconds, false)
	default:
		return ""
	}
}

// slideFilter pads the frame to twice its size on the chosen side and
// crops a moving window back down to the original frame, producing an
// edge-to-center (slide in) or center-to-edge (slide out) sweep active
// over [start, start+dur). Direction is chosen by in: it reverses the
// crop offset's time term, so the window moves from the padding onto the
// frame (in) or from the frame onto the padding (out).
func slideFilter(side models.Side, width, height int, start, dur float64, in bool) string {
	t := fmt.Sprintf("clip((t-%.2f)/%.2f,0,1)", start, dur)
	if in {
		t = fmt.Sprintf("(1-%s)", t)
	}

	switch side {
	case models.SideLeft:
		return fmt.Sprintf("pad=%d:%d:%d:0,crop=%d:%d:'(1-%s)*%d':0", width*2, height, width, width, height, t, width)
	case models.SideRight:
		return fmt.Sprintf("pad=%d:%d:0:0,crop=%d:%d:'%s*%d':0", width*2, height, width, height, t, width)
	case models.SideTop:
		return fmt.Sprintf("pad=%d:%d:0:%d,crop=%d:%d:0:'(1-%s)*%d'", width, height*2, height, width, height, t, height)
	case models.SideBottom:
		return fmt.Sprintf("pad=%d:%d:0:0,crop=%d:%d:0:'%s*%d'", width, height*2, width, height, t, height)
	default:
		return ""
	}
}
