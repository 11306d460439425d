// Package concatenator joins ProcessedClips into one combined video,
// preferring ffmpeg's lossless concat demuxer and falling back to an
// iterative re-encode when the fast path doesn't work.
package concatenator

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"videopipeline/models"
	"videopipeline/policy"
	"videopipeline/runner"
)

const concatTimeout = 300 * time.Second

// Concatenator joins ProcessedClips in the temp directory they were
// written into.
type Concatenator struct {
	run *runner.Runner
	enc *policy.EncoderPolicy
}

// New builds a Concatenator bound to a Runner and the EncoderPolicy used
// for the re-encode fallback path.
func New(run *runner.Runner, enc *policy.EncoderPolicy) *Concatenator {
	return &Concatenator{run: run, enc: enc}
}

// Concatenate joins clips (already in final order) into outputPath. N=1
// is a byte copy; N>=2 tries the concat-demuxer fast path first and
// falls back to iterative re-encoding on failure. Every per-clip temp
// file and the concat list are deleted on success.
func (c *Concatenator) Concatenate(ctx context.Context, clips []models.ProcessedClip, outputPath string) error {
	if len(clips) == 0 {
		return models.ErrNoClips
	}

	if len(clips) == 1 {
		if err := copyFile(clips[0].Path, outputPath); err != nil {
			return fmt.Errorf("byte-copy of single clip failed: %w", err)
		}
		os.Remove(clips[0].Path)
		return nil
	}

	listPath, err := c.writeConcatList(clips)
	if err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(listPath)

	if err := c.runFastConcat(ctx, listPath, outputPath); err != nil {
		log.Printf("[concatenator] %v: %v", models.ErrConcatFast, err)
		if err := c.reencodeConcat(ctx, clips, outputPath); err != nil {
			return err
		}
	}

	for _, clip := range clips {
		os.Remove(clip.Path)
	}
	return nil
}

// writeConcatList writes the ffmpeg concat-demuxer list file, one
// absolute, quote-escaped path per line, forward-slashed for
// cross-platform safety.
func (c *Concatenator) writeConcatList(clips []models.ProcessedClip) (string, error) {
	f, err := os.CreateTemp("", "concat_list-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, clip := range clips {
		abs, err := filepath.Abs(clip.Path)
		if err != nil {
			return "", fmt.Errorf("resolving absolute path for %s: %w", clip.Path, err)
		}
		abs = filepath.ToSlash(abs)
		escaped := strings.ReplaceAll(abs, "'", "'\\''")
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			return "", err
		}
	}
	return f.Name(), nil
}

func (c *Concatenator) runFastConcat(ctx context.Context, listPath, outputPath string) error {
	ffmpegPath, err := c.run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	args := []string{"-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", "-y", outputPath}
	res, err := c.run.Run(ctx, ffmpegPath, args, concatTimeout)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("ffmpeg exited %d: %s", res.ExitCode, res.Stderr)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("output not created: %w", err)
	}
	return nil
}

// reencodeConcat seeds a working file with the first clip, then for each
// remaining clip concatenates working+next and re-encodes the pair via
// the Encoder Policy to a sibling temp, replacing working. A single-step
// failure is logged and that clip is skipped, not the whole pipeline.
func (c *Concatenator) reencodeConcat(ctx context.Context, clips []models.ProcessedClip, outputPath string) error {
	working := clips[0].Path

	for _, next := range clips[1:] {
		merged := filepath.Join(filepath.Dir(outputPath), fmt.Sprintf("temp-merged-%s.mp4", uuid.NewString()))

		if err := c.reencodePair(ctx, working, next.Path, merged); err != nil {
			log.Printf("[concatenator] skipping clip %s: %v", next.Path, err)
			os.Remove(merged)
			continue
		}

		if working != clips[0].Path {
			os.Remove(working)
		}
		working = merged
	}

	if err := copyFile(working, outputPath); err != nil {
		return fmt.Errorf("writing final re-encoded concat output: %w", err)
	}
	if working != clips[0].Path {
		os.Remove(working)
	}
	return nil
}

// reencodePair merges a and b via the concat-demuxer fast path into out,
// then re-encodes out through the Encoder Policy if the fast concat
// itself fails (the pairwise step still prefers the cheap path first).
func (c *Concatenator) reencodePair(ctx context.Context, a, b, out string) error {
	listPath, err := c.writeConcatList([]models.ProcessedClip{{Path: a}, {Path: b}})
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	if err := c.runFastConcat(ctx, listPath, out); err == nil {
		return nil
	}

	ffmpegPath, err := c.run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	return c.enc.EncodeClip(ctx, func(ctx context.Context, videoEncoder string) error {
		args := []string{"-i", a, "-i", b,
			"-filter_complex", "[0:v][1:v]concat=n=2:v=1:a=0[outv]",
			"-map", "[outv]", "-c:v", videoEncoder, "-y", out}
		res, err := c.run.Run(ctx, ffmpegPath, args, concatTimeout)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("ffmpeg exited %d: %s", res.ExitCode, res.Stderr)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
