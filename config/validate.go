package config

import (
	"fmt"
	"strings"
)

// Validate checks if the configuration is internally consistent for the
// named subcommand (combine, finalize, preprocess). It does not stat any
// input path: that is the caller's job at the moment it opens a
// SourceClip, matching the Capability Probe / Media Runner's "fail at the
// point of use" style rather than a pre-flight existence check here.
func (c *Config) Validate(subcommand string) error {
	var errs []string

	if len(c.SourcePaths) == 0 {
		errs = append(errs, "at least one source path is required")
	}
	if subcommand != "preprocess" && c.NarrationAudioPath == "" {
		errs = append(errs, "narration audio path is required")
	}
	if c.OutputPath == "" {
		errs = append(errs, "output path is required")
	}

	if !isValidValue(c.Aspect, AspectValues()) {
		errs = append(errs, fmt.Sprintf("invalid aspect %q, must be one of: %s", c.Aspect, strings.Join(AspectValues(), ", ")))
	}
	if !isValidValue(c.ConcatMode, ConcatModeValues()) {
		errs = append(errs, fmt.Sprintf("invalid concat mode %q, must be one of: %s", c.ConcatMode, strings.Join(ConcatModeValues(), ", ")))
	}
	if !isValidValue(c.TransitionMode, TransitionModeValues()) {
		errs = append(errs, fmt.Sprintf("invalid transition mode %q, must be one of: %s", c.TransitionMode, strings.Join(TransitionModeValues(), ", ")))
	}

	if c.MaxClipDuration <= 0 {
		errs = append(errs, "max clip duration must be positive")
	}
	if c.Workers < 0 {
		errs = append(errs, "workers cannot be negative (use 0 for auto-detect)")
	}

	if c.Subtitle.Enabled {
		if c.Subtitle.Position != "" && !isValidValue(c.Subtitle.Position, []string{"top", "bottom", "center", "custom"}) {
			errs = append(errs, fmt.Sprintf("invalid subtitle position %q", c.Subtitle.Position))
		}
		if c.Subtitle.Position == "custom" && (c.Subtitle.CustomPositionPercent < 0 || c.Subtitle.CustomPositionPercent > 100) {
			errs = append(errs, "custom position percent must be between 0 and 100")
		}
	}

	if c.Audio.BGMType != "" && !isValidValue(c.Audio.BGMType, []string{"random", "file", "none"}) {
		errs = append(errs, fmt.Sprintf("invalid bgm type %q", c.Audio.BGMType))
	}
	if c.Audio.BGMType == "file" && c.Audio.BGMFile == "" {
		errs = append(errs, "bgm_type 'file' requires bgm_file to be set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
