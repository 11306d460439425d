package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// MergeFromFlags parses command-line flags and overrides config values.
// Priority: CLI flags > config file > defaults, matching LoadConfig.
func (c *Config) MergeFromFlags() error {
	fs := flag.NewFlagSet("videopipeline", flag.ContinueOnError)
	fs.Usage = printUsage

	sources := fs.String("sources", "", "Comma-separated list of source clip paths")
	narration := fs.String("narration", "", "Narration audio path (required)")
	subtitlePath := fs.String("subtitles", "", "Subtitle (.srt) path")
	output := fs.String("output", "", "Output file path (required)")

	_ = fs.String("config", "", "Path to config file (default: search standard locations)")

	aspect := fs.String("aspect", "", "Aspect: portrait, landscape, square, original")
	concatMode := fs.String("concat-mode", "", "Concat mode: sequential, random")
	transitionMode := fs.String("transition", "", "Transition: none, fade_in, fade_out, slide_in, slide_out, shuffle")
	maxClipDuration := fs.Float64("max-clip-duration", -1, "Seconds per subclip window")

	workers := fs.Int("workers", -1, "Worker count recorded in the config (0 = CPU count); not passed to the pipeline, whose pool is min(CPUs, windows)")
	threads := fs.Int("threads", -1, "ffmpeg -threads for the final burn-in pass")

	subtitlesEnabled := fs.Bool("subtitles-enabled", false, "Enable subtitle burn-in/composite")
	voiceVolume := fs.Float64("voice-volume", -1, "Narration volume multiplier")
	bgmType := fs.String("bgm-type", "", "BGM selection: random, file, none")
	bgmFile := fs.String("bgm-file", "", "Explicit BGM file (with -bgm-type file)")
	bgmVolume := fs.Float64("bgm-volume", -1, "BGM volume multiplier")

	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	dryRun := fs.Bool("dry-run", false, "Show the effective configuration without encoding")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *sources != "" {
		c.SourcePaths = strings.Split(*sources, ",")
	}
	if *narration != "" {
		c.NarrationAudioPath = *narration
	}
	if *subtitlePath != "" {
		c.SubtitlePath = *subtitlePath
	}
	if *output != "" {
		c.OutputPath = *output
	}

	if *aspect != "" {
		c.Aspect = *aspect
	}
	if *concatMode != "" {
		c.ConcatMode = *concatMode
	}
	if *transitionMode != "" {
		c.TransitionMode = *transitionMode
	}
	if *maxClipDuration > 0 {
		c.MaxClipDuration = *maxClipDuration
	}

	if *workers >= 0 {
		c.Workers = *workers
	}
	if *threads > 0 {
		c.Threads = *threads
	}

	if *subtitlesEnabled {
		c.Subtitle.Enabled = true
	}
	if *voiceVolume >= 0 {
		c.Audio.VoiceVolume = *voiceVolume
	}
	if *bgmType != "" {
		c.Audio.BGMType = *bgmType
	}
	if *bgmFile != "" {
		c.Audio.BGMFile = *bgmFile
	}
	if *bgmVolume >= 0 {
		c.Audio.BGMVolume = *bgmVolume
	}

	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}

	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `videopipeline - narrated video composition pipeline

USAGE:
  videopipeline combine -sources a.mp4,b.mp4 -narration voice.mp3 -output out.mp4
  videopipeline finalize -output final.mp4 [OPTIONS]

CONFIGURATION:
  -config string
        Path to config file (default: search ./videopipeline.yaml, ~/.videopipeline/config.yaml, /etc/videopipeline/config.yaml)

COMPOSITION:
  -sources string        Comma-separated source clip paths
  -narration string      Narration audio path
  -subtitles string      Subtitle (.srt) path
  -output string         Output path
  -aspect string         portrait|landscape|square|original (default: portrait)
  -concat-mode string    sequential|random (default: sequential)
  -transition string     none|fade_in|fade_out|slide_in|slide_out|shuffle (default: none)
  -max-clip-duration N   seconds per subclip window (default: 5)

EXECUTION:
  -workers N             recorded in the config only (0 = CPU count); the clip-worker
                         pool is always min(CPUs, windows)
  -threads N             ffmpeg -threads for the burn-in pass

AUDIO/SUBTITLE:
  -subtitles-enabled
  -voice-volume N
  -bgm-type string       random|file|none
  -bgm-file string
  -bgm-volume N

  -verbose
  -dry-run

Priority: CLI flags > config file > defaults.
`)
}

// PrintConfig prints the effective configuration.
func (c *Config) PrintConfig() {
	fmt.Println("=== Effective Configuration ===")
	fmt.Printf("Sources:    %v\n", c.SourcePaths)
	fmt.Printf("Narration:  %s\n", c.NarrationAudioPath)
	fmt.Printf("Subtitles:  %s (enabled=%v)\n", c.SubtitlePath, c.Subtitle.Enabled)
	fmt.Printf("Output:     %s\n", c.OutputPath)
	fmt.Printf("Aspect:     %s\n", c.Aspect)
	fmt.Printf("ConcatMode: %s\n", c.ConcatMode)
	fmt.Printf("Transition: %s\n", c.TransitionMode)
	fmt.Printf("MaxClip:    %.1fs\n", c.MaxClipDuration)
	fmt.Printf("Workers:    %d\n", c.Workers)
	fmt.Printf("BGM:        type=%s volume=%.2f\n", c.Audio.BGMType, c.Audio.BGMVolume)
	fmt.Printf("VoiceVol:   %.2f\n", c.Audio.VoiceVolume)
}
