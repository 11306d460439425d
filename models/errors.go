package models

import "errors"

// Error taxonomy from the pipeline's error-handling design: these are kinds,
// not wrapped types, so callers compare with errors.Is against a layer's
// returned error (most layers instead log and return a sentinel nil/empty
// value per the propagation policy; these values are reserved for the few
// call sites that do surface a typed failure to their caller, e.g. the
// Subtitle Transcoder and the final NoClips check).
var (
	ErrProbe           = errors.New("capability probe failed or timed out")
	ErrEncoderDemotion = errors.New("gpu encoder rejected clip, demoted to cpu")
	ErrTranscode       = errors.New("clip transcode failed after demotion")
	ErrConcatFast      = errors.New("fast concat failed, falling back to re-encode")
	ErrSubtitleBurn    = errors.New("subtitle burn-in failed, falling back to composite overlay")
	ErrNoCues          = errors.New("subtitle source contains no cues")
	ErrFontMissing     = errors.New("subtitle font file not found")
	ErrNoClips         = errors.New("no processed clips available")
)
