package policy

import (
	"context"
	"errors"
	"testing"

	"videopipeline/models"
)

func gpuVerdict() models.CapabilityVerdict {
	return models.CapabilityVerdict{Vendor: models.VendorNVIDIA, VideoEncoder: "h264_nvenc", ScaleFilter: "scale_npp"}
}

func cpuVerdict() models.CapabilityVerdict {
	return models.CapabilityVerdict{Vendor: models.VendorNone, VideoEncoder: models.DefaultCPUVideoCodec}
}

func TestEncodeClip_SucceedsFirstTry(t *testing.T) {
	p := New(gpuVerdict())
	calls := 0
	err := p.EncodeClip(context.Background(), func(ctx context.Context, enc string) error {
		calls++
		if enc != "h264_nvenc" {
			t.Errorf("expected first attempt with h264_nvenc, got %s", enc)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}

func TestEncodeClip_DemotesOnGPUFailure(t *testing.T) {
	p := New(gpuVerdict())
	var seen []string
	err := p.EncodeClip(context.Background(), func(ctx context.Context, enc string) error {
		seen = append(seen, enc)
		if enc == "h264_nvenc" {
			return errors.New("Cannot load nvenc, driver error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error after demotion: %v", err)
	}
	if len(seen) != 2 || seen[0] != "h264_nvenc" || seen[1] != models.DefaultCPUVideoCodec {
		t.Errorf("expected [h264_nvenc, %s], got %v", models.DefaultCPUVideoCodec, seen)
	}
}

func TestEncodeClip_DoesNotDemoteOnUnrelatedFailure(t *testing.T) {
	p := New(gpuVerdict())
	calls := 0
	err := p.EncodeClip(context.Background(), func(ctx context.Context, enc string) error {
		calls++
		return errors.New("no such file or directory")
	})
	if err == nil {
		t.Fatal("expected error to surface")
	}
	if calls != 1 {
		t.Errorf("expected no retry for unrelated failure, got %d calls", calls)
	}
}

func TestEncodeClip_NoRetryWhenAlreadyCPU(t *testing.T) {
	p := New(cpuVerdict())
	calls := 0
	err := p.EncodeClip(context.Background(), func(ctx context.Context, enc string) error {
		calls++
		return errors.New("invalid argument")
	})
	if err == nil {
		t.Fatal("expected error to surface")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call when already on libx264, got %d", calls)
	}
}

func TestEncodeClip_SurfacesErrorWhenBothAttemptsFail(t *testing.T) {
	p := New(gpuVerdict())
	err := p.EncodeClip(context.Background(), func(ctx context.Context, enc string) error {
		return errors.New("nvenc session failed, driver too old")
	})
	if !errors.Is(err, models.ErrEncoderDemotion) {
		t.Errorf("expected ErrEncoderDemotion, got %v", err)
	}
}
