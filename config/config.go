package config

// Config holds every tunable of the composition pipeline. It is the
// ambient-configuration counterpart to the entry-point parameter structs
// (Combine/Finalize/Preprocess), merged from defaults, an optional YAML
// file, and CLI flags in that priority order.
type Config struct {
	// Inputs
	SourcePaths        []string `yaml:"source_paths"`
	NarrationAudioPath string   `yaml:"narration_audio_path"`
	SubtitlePath       string   `yaml:"subtitle_path"`
	OutputPath         string   `yaml:"output_path"`

	// Planning / composition
	Aspect          string  `yaml:"aspect"`            // portrait|landscape|square|original
	ConcatMode      string  `yaml:"concat_mode"`       // sequential|random
	TransitionMode  string  `yaml:"transition_mode"`   // none|fade_in|fade_out|slide_in|slide_out|shuffle
	MaxClipDuration float64 `yaml:"max_clip_duration"` // seconds

	// Execution
	Workers int `yaml:"workers"` // 0 = CPU count; recorded only, the driver sizes the clip-worker pool itself
	Threads int `yaml:"threads"` // ffmpeg -threads for the final burn-in pass

	// Media tool resolution
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	Subtitle SubtitleConfig `yaml:"subtitle"`
	Audio    AudioMixConfig `yaml:"audio"`

	Verbose bool `yaml:"verbose"`
	DryRun  bool `yaml:"dry_run"`
}

// SubtitleConfig mirrors the Subtitle Transcoder's style parameters.
type SubtitleConfig struct {
	Enabled               bool    `yaml:"enabled"`
	FontFile              string  `yaml:"font_file"`
	FontDir               string  `yaml:"font_dir"`
	FontSizeBase          int     `yaml:"font_size_base"`
	StrokeWidthBase       int     `yaml:"stroke_width_base"`
	ForeColorHex          string  `yaml:"fore_color_hex"`
	StrokeColorHex        string  `yaml:"stroke_color_hex"`
	BGColorHex            string  `yaml:"bg_color_hex"`
	Position              string  `yaml:"position"` // top|bottom|center|custom
	CustomPositionPercent float64 `yaml:"custom_position_percent"`
}

// AudioMixConfig mirrors the Final Muxer's audio parameters.
type AudioMixConfig struct {
	VoiceVolume float64 `yaml:"voice_volume"`
	BGMType     string  `yaml:"bgm_type"` // random|file|none
	BGMFile     string  `yaml:"bgm_file"`
	BGMDir      string  `yaml:"bgm_dir"`
	BGMVolume   float64 `yaml:"bgm_volume"`
}

// DefaultConfig returns configuration with the defaults named explicitly by
// the pipeline contract (aspect geometries, aac/libx264/30fps) plus sensible
// values for everything left to the implementer.
func DefaultConfig() *Config {
	return &Config{
		Aspect:          "portrait",
		ConcatMode:      "sequential",
		TransitionMode:  "none",
		MaxClipDuration: 5,

		Workers: 0,
		Threads: 2,

		FFmpegPath:  "",
		FFprobePath: "",

		Subtitle: SubtitleConfig{
			Enabled:               false,
			FontSizeBase:          60,
			StrokeWidthBase:       2,
			ForeColorHex:          "#FFFFFF",
			StrokeColorHex:        "#000000",
			Position:              "bottom",
			CustomPositionPercent: 50,
		},
		Audio: AudioMixConfig{
			VoiceVolume: 1.0,
			BGMType:     "none",
			BGMVolume:   0.2,
		},
	}
}

// Copy returns a deep-enough copy for safe mutation.
func (c *Config) Copy() *Config {
	cp := *c
	cp.SourcePaths = append([]string(nil), c.SourcePaths...)
	return &cp
}

// AspectValues returns the valid aspect names.
func AspectValues() []string {
	return []string{"portrait", "landscape", "square", "original"}
}

// ConcatModeValues returns the valid concat mode names.
func ConcatModeValues() []string {
	return []string{"sequential", "random"}
}

// TransitionModeValues returns the valid transition mode names.
func TransitionModeValues() []string {
	return []string{"none", "fade_in", "fade_out", "slide_in", "slide_out", "shuffle"}
}

func isValidValue(v string, valid []string) bool {
	for _, candidate := range valid {
		if v == candidate {
			return true
		}
	}
	return false
}
