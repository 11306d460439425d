package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Aspect != "portrait" {
		t.Errorf("Expected aspect 'portrait', got %s", cfg.Aspect)
	}
	if cfg.ConcatMode != "sequential" {
		t.Errorf("Expected concat mode 'sequential', got %s", cfg.ConcatMode)
	}
	if cfg.MaxClipDuration != 5 {
		t.Errorf("Expected max clip duration 5, got %v", cfg.MaxClipDuration)
	}
	if cfg.Workers != 0 {
		t.Errorf("Expected workers 0 (auto-detect), got %d", cfg.Workers)
	}
	if cfg.Audio.BGMType != "none" {
		t.Errorf("Expected bgm type 'none', got %s", cfg.Audio.BGMType)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := DefaultConfig()
		c.SourcePaths = []string{"a.mp4"}
		c.NarrationAudioPath = "voice.mp3"
		c.OutputPath = "out.mp4"
		return c
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing sources", func(c *Config) { c.SourcePaths = nil }, true},
		{"missing narration", func(c *Config) { c.NarrationAudioPath = "" }, true},
		{"missing output", func(c *Config) { c.OutputPath = "" }, true},
		{"invalid aspect", func(c *Config) { c.Aspect = "widescreen" }, true},
		{"invalid concat mode", func(c *Config) { c.ConcatMode = "shuffled" }, true},
		{"zero max clip duration", func(c *Config) { c.MaxClipDuration = 0 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"bgm file without path", func(c *Config) { c.Audio.BGMType = "file" }, true},
		{"custom position out of range", func(c *Config) {
			c.Subtitle.Enabled = true
			c.Subtitle.Position = "custom"
			c.Subtitle.CustomPositionPercent = 150
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate("combine")
			if tt.expectError && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate_PreprocessAllowsMissingNarration(t *testing.T) {
	c := DefaultConfig()
	c.SourcePaths = []string{"a.jpg"}
	c.OutputPath = "out.mp4"

	if err := c.Validate("preprocess"); err != nil {
		t.Errorf("expected preprocess to not require narration, got %v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourcePaths = []string{"a.mp4", "b.mp4"}

	cp := cfg.Copy()
	cp.SourcePaths[0] = "mutated.mp4"

	if cfg.SourcePaths[0] == "mutated.mp4" {
		t.Error("Copy() did not deep-copy SourcePaths")
	}
}
