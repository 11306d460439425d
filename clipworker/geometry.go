package clipworker

import "videopipeline/models"

// aspectTolerance is the relative tolerance used when comparing a clip's
// aspect ratio against the target's, both for the letterbox-vs-resize
// decision and for gating the GPU scale fast path.
const aspectTolerance = 1e-3

// fitStrategy is the geometry-fit decision for one clip against a target.
type fitStrategy int

const (
	fitNoop fitStrategy = iota
	fitDirectResize
	fitLetterbox
)

// planFit decides how a decoded clip of size (clipW, clipH) must be
// transformed to occupy a target frame of size (targetW, targetH), and
// for the letterbox case returns the pre-pad scaled dimensions.
func planFit(clipW, clipH, targetW, targetH int) (strategy fitStrategy, scaledW, scaledH int) {
	if clipW == targetW && clipH == targetH {
		return fitNoop, clipW, clipH
	}

	clipRatio := float64(clipW) / float64(clipH)
	targetRatio := float64(targetW) / float64(targetH)

	if aspectEqual(clipRatio, targetRatio) {
		return fitDirectResize, targetW, targetH
	}

	var scale float64
	if clipRatio > targetRatio {
		scale = float64(targetW) / float64(clipW)
	} else {
		scale = float64(targetH) / float64(clipH)
	}

	scaledW = int(float64(clipW) * scale)
	scaledH = int(float64(clipH) * scale)
	return fitLetterbox, scaledW, scaledH
}

// aspectEqual reports whether two ratios are equal within aspectTolerance
// relative tolerance.
func aspectEqual(a, b float64) bool {
	if b == 0 {
		return a == 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/b <= aspectTolerance
}

// gpuScaleEligible reports whether the GPU scale fast path may be
// attempted: a GPU scale filter must be available and the clip's aspect
// ratio must match the target's exactly (within tolerance), since the
// fast path has no letterbox/pad capability.
func gpuScaleEligible(verdict models.CapabilityVerdict, clipW, clipH, targetW, targetH int) bool {
	if !verdict.HasGPUScale() {
		return false
	}
	clipRatio := float64(clipW) / float64(clipH)
	targetRatio := float64(targetW) / float64(targetH)
	return aspectEqual(clipRatio, targetRatio)
}
