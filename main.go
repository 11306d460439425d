package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"videopipeline/config"
	"videopipeline/models"
	"videopipeline/pipeline"
	"videopipeline/planner"
	"videopipeline/runner"
)

var (
	logger  *log.Logger
	logFile *os.File
)

func initLogger(outputPath string) error {
	logPath := outputPath + ".log"
	var err error
	logFile, err = os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logger = log.New(logFile, "", log.LstdFlags)
	logger.Printf("===== PIPELINE SESSION STARTED =====")

	fmt.Printf("📝 Logging to: %s\n", logPath)
	return nil
}

func closeLogger() {
	if logger != nil {
		logger.Printf("===== PIPELINE SESSION ENDED =====")
	}
	if logFile != nil {
		logFile.Close()
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: videopipeline <combine|finalize|preprocess> [flags]")
		os.Exit(1)
	}
	subcommand := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	cfg, err := config.LoadConfig(subcommand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	if cfg.DryRun {
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("                      DRY RUN MODE")
		fmt.Println("═══════════════════════════════════════════════════════════")
		cfg.PrintConfig()
		fmt.Printf("\nWould run: %s\n", subcommand)
		return
	}

	if err := initLogger(cfg.OutputPath); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Logger initialization error: %v\n", err)
		os.Exit(1)
	}
	defer closeLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\n⚠️  Interrupt received, cleaning up...")
		logger.Println("INTERRUPT: user cancelled run")
		cancel()
	}()

	run := runner.New(cfg.FFmpegPath, cfg.FFprobePath)

	var runErr error
	switch subcommand {
	case "combine":
		runErr = runCombine(ctx, run, cfg)
	case "finalize":
		runErr = runFinalize(ctx, run, cfg)
	case "preprocess":
		runErr = runPreprocess(ctx, run, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q (want combine, finalize, or preprocess)\n", subcommand)
		os.Exit(1)
	}

	if runErr != nil {
		if ctx.Err() == context.Canceled {
			fmt.Println("\n⚠️  Run cancelled by user")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "\n❌ Pipeline error: %v\n", runErr)
		logger.Printf("ERROR: %v", runErr)
		os.Exit(1)
	}

	fmt.Println("\n✅ Completed successfully!")
}

func runCombine(ctx context.Context, run *runner.Runner, cfg *config.Config) error {
	start := time.Now()

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                 VIDEO PIPELINE - COMBINE                        ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("Sources:   %v\n", cfg.SourcePaths)
	fmt.Printf("Narration: %s\n", cfg.NarrationAudioPath)
	fmt.Printf("Output:    %s\n", cfg.OutputPath)
	fmt.Println()

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	opts := pipeline.CombineOptions{
		Aspect:          cfg.Aspect,
		ConcatMode:      planner.ConcatMode(cfg.ConcatMode),
		TransitionMode:  models.TransitionKind(cfg.TransitionMode),
		MaxClipDuration: cfg.MaxClipDuration,
		Threads:         cfg.Threads,
	}

	out, err := pipeline.Combine(ctx, run, cfg.OutputPath, cfg.SourcePaths, cfg.NarrationAudioPath, opts)
	if err != nil {
		return err
	}

	logger.Printf("combine wrote %s in %s", out, time.Since(start))
	fmt.Printf("\n🎬 Wrote %s (%.1fs)\n", out, time.Since(start).Seconds())
	return nil
}

func runFinalize(ctx context.Context, run *runner.Runner, cfg *config.Config) error {
	start := time.Now()

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                 VIDEO PIPELINE - FINALIZE                       ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("Video:     %s\n", cfg.SourcePaths)
	fmt.Printf("Narration: %s\n", cfg.NarrationAudioPath)
	fmt.Printf("Subtitles: %s (enabled=%v)\n", cfg.SubtitlePath, cfg.Subtitle.Enabled)
	fmt.Printf("Output:    %s\n", cfg.OutputPath)
	fmt.Println()

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if len(cfg.SourcePaths) == 0 {
		return fmt.Errorf("finalize requires -sources to name the combined video to finalize")
	}

	params := pipeline.FinalizeParams{
		Aspect:          cfg.Aspect,
		SubtitleEnabled: cfg.Subtitle.Enabled,
		Style: models.SubtitleStyle{
			FontFile:              cfg.Subtitle.FontFile,
			FontSizeBase:          cfg.Subtitle.FontSizeBase,
			StrokeWidthBase:       cfg.Subtitle.StrokeWidthBase,
			ForeColorHex:          cfg.Subtitle.ForeColorHex,
			StrokeColorHex:        cfg.Subtitle.StrokeColorHex,
			BGColorHex:            cfg.Subtitle.BGColorHex,
			Position:              models.SubtitlePosition(cfg.Subtitle.Position),
			CustomPositionPercent: cfg.Subtitle.CustomPositionPercent,
		},
		BGMMode:     models.BGMMode(cfg.Audio.BGMType),
		BGMFile:     cfg.Audio.BGMFile,
		BGMDir:      cfg.Audio.BGMDir,
		BGMVolume:   cfg.Audio.BGMVolume,
		VoiceVolume: cfg.Audio.VoiceVolume,
		Threads:     cfg.Threads,
	}

	videoPath := cfg.SourcePaths[0]
	if err := pipeline.Finalize(ctx, run, videoPath, cfg.NarrationAudioPath, cfg.SubtitlePath, cfg.OutputPath, params); err != nil {
		return err
	}

	logger.Printf("finalize wrote %s in %s", cfg.OutputPath, time.Since(start))
	fmt.Printf("\n🎬 Wrote %s (%.1fs)\n", cfg.OutputPath, time.Since(start).Seconds())
	return nil
}

func runPreprocess(ctx context.Context, run *runner.Runner, cfg *config.Config) error {
	start := time.Now()

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                 VIDEO PIPELINE - PREPROCESS                     ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("Materials: %v\n", cfg.SourcePaths)
	fmt.Println()

	outputDir := filepath.Dir(cfg.OutputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	rewritten, err := pipeline.Preprocess(ctx, run, cfg.SourcePaths, cfg.MaxClipDuration, outputDir)
	if err != nil {
		return err
	}

	logger.Printf("preprocess rewrote %d materials in %s", len(rewritten), time.Since(start))
	fmt.Printf("\n🖼️  Preprocessed %d materials (%.1fs)\n", len(rewritten), time.Since(start).Seconds())
	for i, path := range rewritten {
		fmt.Printf("  [%d] %s\n", i, path)
	}
	return nil
}

