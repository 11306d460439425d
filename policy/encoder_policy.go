// Package policy decides, for a single clip encode, whether to use the
// capability-detected GPU encoder or fall back to the universal libx264
// software encoder.
package policy

import (
	"context"
	"fmt"
	"log"
	"strings"

	"videopipeline/models"
)

// gpuFailureMarkers are substrings (checked case-insensitively) that
// identify an encode failure as GPU-encoder-specific rather than a
// systemic problem that would also break libx264.
var gpuFailureMarkers = []string{
	"nvenc", "driver", "encoder", "not support", "invalid argument",
}

// EncodeFunc runs one encode attempt with the given video encoder name and
// reports any failure. Callers supply this so the policy stays decoupled
// from the concrete command builder.
type EncodeFunc func(ctx context.Context, videoEncoder string) error

// EncoderPolicy is the single decision object constructed from a
// CapabilityVerdict; it is immutable and safe for concurrent use across
// clip workers.
type EncoderPolicy struct {
	verdict models.CapabilityVerdict
}

// New builds an EncoderPolicy bound to a capability verdict.
func New(verdict models.CapabilityVerdict) *EncoderPolicy {
	return &EncoderPolicy{verdict: verdict}
}

// VideoEncoder returns the encoder this policy will attempt first.
func (p *EncoderPolicy) VideoEncoder() string {
	return p.verdict.VideoEncoder
}

// EncodeClip attempts encode with the policy's chosen encoder. If that
// encoder is GPU-backed and the attempt fails with an error matching one
// of the known GPU-failure markers, it retries once with libx264. Any
// other error, or a failure while already on libx264, is surfaced as-is.
func (p *EncoderPolicy) EncodeClip(ctx context.Context, encode EncodeFunc) error {
	chosen := p.verdict.VideoEncoder

	err := encode(ctx, chosen)
	if err == nil {
		return nil
	}

	if chosen == models.DefaultCPUVideoCodec || !isGPUFailure(err) {
		return fmt.Errorf("%w: %v", models.ErrTranscode, err)
	}

	log.Printf("[policy] encoder %s failed (%v), demoting to %s", chosen, err, models.DefaultCPUVideoCodec)
	if err := encode(ctx, models.DefaultCPUVideoCodec); err != nil {
		return fmt.Errorf("%w: libx264 retry after %s demotion also failed: %v", models.ErrEncoderDemotion, chosen, err)
	}
	return nil
}

func isGPUFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range gpuFailureMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
