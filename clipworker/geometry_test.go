package clipworker

import (
	"testing"

	"videopipeline/models"
)

func TestPlanFit_ExactMatchIsNoop(t *testing.T) {
	strategy, w, h := planFit(1080, 1920, 1080, 1920)
	if strategy != fitNoop {
		t.Errorf("expected fitNoop, got %v", strategy)
	}
	if w != 1080 || h != 1920 {
		t.Errorf("expected dimensions unchanged, got %dx%d", w, h)
	}
}

func TestPlanFit_MatchingAspectResizesDirect(t *testing.T) {
	// 1920x1080 and 960x540 share a 16:9 ratio but differ in size.
	strategy, w, h := planFit(1920, 1080, 960, 540)
	if strategy != fitDirectResize {
		t.Errorf("expected fitDirectResize, got %v", strategy)
	}
	if w != 960 || h != 540 {
		t.Errorf("expected target dims 960x540, got %dx%d", w, h)
	}
}

func TestPlanFit_MismatchedAspectLetterboxes(t *testing.T) {
	// 1920x1080 (16:9) into a 1080x1920 (9:16) target.
	strategy, w, h := planFit(1920, 1080, 1080, 1920)
	if strategy != fitLetterbox {
		t.Errorf("expected fitLetterbox, got %v", strategy)
	}
	// clipRatio(1.78) > targetRatio(0.5625) so scale = targetW/clipW = 1080/1920 = 0.5625
	// scaledH = 1080*0.5625 = 607.5, truncated to 607
	if w != 1080 || h != 607 {
		t.Errorf("expected scaled dims 1080x607, got %dx%d", w, h)
	}
}

func TestAspectEqual_WithinTolerance(t *testing.T) {
	if !aspectEqual(16.0/9.0, 16.001/9.0) {
		t.Error("expected near-equal ratios to be treated as equal")
	}
}

func TestAspectEqual_OutsideTolerance(t *testing.T) {
	if aspectEqual(16.0/9.0, 4.0/3.0) {
		t.Error("expected clearly different ratios to be unequal")
	}
}

func TestGPUScaleEligible_RequiresBothFilterAndAspectMatch(t *testing.T) {
	withFilter := models.CapabilityVerdict{ScaleFilter: "scale_npp"}
	withoutFilter := models.CapabilityVerdict{}

	if !gpuScaleEligible(withFilter, 1920, 1080, 960, 540) {
		t.Error("expected eligible: filter present and aspect matches")
	}
	if gpuScaleEligible(withoutFilter, 1920, 1080, 960, 540) {
		t.Error("expected ineligible: no scale filter")
	}
	if gpuScaleEligible(withFilter, 1920, 1080, 1080, 1920) {
		t.Error("expected ineligible: aspect mismatch")
	}
}
