// Package subtitle builds the ffmpeg invocations for the Final Muxer's two
// subtitle rendering strategies: burning a styled ASS document in with the
// "ass" filter, and a slower per-cue drawtext composite used when the burn
// path fails or the media tool lacks the ass filter.
package subtitle

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"videopipeline/command"
	"videopipeline/models"
	"videopipeline/runner"
)

const burnTimeout = 600 * time.Second

// BurnBuilder builds the ffmpeg invocation that burns an ASS document into
// a video via the "ass" filter.
type BurnBuilder struct {
	videoInput string
	assPath    string
	fontsDir   string
	outputPath string

	encoder    string
	audioCodec string
	preset     string
	threads    int

	priority int
	timeout  time.Duration

	ctx context.Context
	run *runner.Runner
}

// NewBurnBuilder creates a builder that burns assPath into videoInput.
func NewBurnBuilder(videoInput, assPath, fontsDir, outputPath string) *BurnBuilder {
	return &BurnBuilder{
		videoInput: videoInput,
		assPath:    assPath,
		fontsDir:   fontsDir,
		outputPath: outputPath,
		encoder:    models.DefaultCPUVideoCodec,
		audioCodec: models.DefaultAudioCodec,
		preset:     "fast",
		priority:   command.PriorityNormal,
		timeout:    burnTimeout,
		ctx:        context.Background(),
	}
}

// SetExecContext binds the context and Runner used by Run.
func (b *BurnBuilder) SetExecContext(ctx context.Context, r *runner.Runner) *BurnBuilder {
	b.ctx = ctx
	b.run = r
	return b
}

// SetEncoder sets the video encoder used to re-encode the burned output.
func (b *BurnBuilder) SetEncoder(encoder string) *BurnBuilder {
	b.encoder = encoder
	return b
}

// SetThreads sets the -threads argument; 0 omits the flag and lets ffmpeg
// choose.
func (b *BurnBuilder) SetThreads(threads int) *BurnBuilder {
	b.threads = threads
	return b
}

// BuildArgs constructs the ffmpeg arguments for the burn-in pass.
func (b *BurnBuilder) BuildArgs() []string {
	vf := fmt.Sprintf("ass='%s':fontsdir='%s',format=yuv420p",
		escapeAssFilterPath(b.assPath), escapeAssFilterPath(b.fontsDir))

	args := []string{
		"-i", b.videoInput,
		"-vf", vf,
		"-c:v", b.encoder,
		"-c:a", b.audioCodec,
		"-preset", b.preset,
	}
	if b.threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", b.threads))
	}
	args = append(args, "-pix_fmt", "yuv420p", "-y", b.outputPath)
	return args
}

// escapeAssFilterPath rewrites path for use inside an ffmpeg filtergraph
// argument: forward slashes always, and on Windows the drive-letter colon
// is escaped so ffmpeg doesn't read it as a filter-option separator.
func escapeAssFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	if runtime.GOOS == "windows" {
		if idx := strings.Index(path, ":"); idx >= 0 {
			path = path[:idx] + `\:` + path[idx+1:]
		}
	}
	return path
}

// Run executes the burn pass through the Runner bound by SetExecContext.
func (b *BurnBuilder) Run() error {
	if b.run == nil {
		return fmt.Errorf("subtitle burn builder: SetExecContext was never called")
	}
	ffmpegPath, err := b.run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	res, err := b.run.Run(b.ctx, ffmpegPath, b.BuildArgs(), b.timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrSubtitleBurn, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: ffmpeg exited %d: %s", models.ErrSubtitleBurn, res.ExitCode, res.Stderr)
	}
	return nil
}

// DryRun returns the command as a printable string without executing it.
func (b *BurnBuilder) DryRun() (string, error) {
	return "ffmpeg " + strings.Join(b.BuildArgs(), " "), nil
}

// SetPriority implements command.Command.
func (b *BurnBuilder) SetPriority(priority int) command.Command {
	b.priority = priority
	return b
}

// GetPriority returns the task priority.
func (b *BurnBuilder) GetPriority() int { return b.priority }

// GetTaskType returns command.TaskTypeSubtitle.
func (b *BurnBuilder) GetTaskType() command.TaskType { return command.TaskTypeSubtitle }

// GetInputPath returns the video input path.
func (b *BurnBuilder) GetInputPath() string { return b.videoInput }

// GetOutputPath returns the output file path.
func (b *BurnBuilder) GetOutputPath() string { return b.outputPath }

// CompositeCue is one styled drawtext overlay window.
type CompositeCue struct {
	Text  string
	Start float64
	End   float64
}

// CompositeBuilder renders styled text overlays for each cue directly onto
// the video frame, the fallback path when burning an ASS document fails.
type CompositeBuilder struct {
	videoInput string
	outputPath string
	cues       []CompositeCue

	fontFile    string
	fontSize    int
	foreColor   string // ffmpeg drawtext color, e.g. "white" or "0xRRGGBB"
	strokeColor string
	strokeWidth int
	x, y        string // drawtext position expressions

	encoder    string
	audioCodec string

	priority int
	timeout  time.Duration

	ctx context.Context
	run *runner.Runner
}

// NewCompositeBuilder creates a builder that overlays cues onto videoInput.
func NewCompositeBuilder(videoInput, outputPath string, cues []CompositeCue) *CompositeBuilder {
	return &CompositeBuilder{
		videoInput:  videoInput,
		outputPath:  outputPath,
		cues:        cues,
		foreColor:   "white",
		strokeColor: "black",
		strokeWidth: 2,
		x:           "(w-text_w)/2",
		y:           "h-(text_h*2)",
		encoder:     models.DefaultCPUVideoCodec,
		audioCodec:  models.DefaultAudioCodec,
		priority:    command.PriorityNormal,
		timeout:     burnTimeout,
		ctx:         context.Background(),
	}
}

// SetExecContext binds the context and Runner used by Run.
func (c *CompositeBuilder) SetExecContext(ctx context.Context, r *runner.Runner) *CompositeBuilder {
	c.ctx = ctx
	c.run = r
	return c
}

// SetStyle sets the font file, size, colors, and stroke width applied to
// every cue. Callers derive fontSize/strokeWidth from
// subtitle.FontSizeForHeight/StrokeWidthForHeight so the composite overlay
// matches what the burned-in ASS document would have looked like.
func (c *CompositeBuilder) SetStyle(fontFile string, fontSize int, foreColor, strokeColor string, strokeWidth int) *CompositeBuilder {
	c.fontFile = fontFile
	c.fontSize = fontSize
	c.foreColor = foreColor
	c.strokeColor = strokeColor
	c.strokeWidth = strokeWidth
	return c
}

// SetPosition sets the drawtext x/y position expressions, the pixel-space
// equivalent of the ASS alignment/marginV rules.
func (c *CompositeBuilder) SetPosition(x, y string) *CompositeBuilder {
	c.x = x
	c.y = y
	return c
}

// SetEncoder sets the video encoder used to re-encode the composited output.
func (c *CompositeBuilder) SetEncoder(encoder string) *CompositeBuilder {
	c.encoder = encoder
	return c
}

// BuildArgs constructs the ffmpeg arguments: one drawtext filter per cue,
// each gated by enable='between(t,start,end)', chained in a single -vf.
func (c *CompositeBuilder) BuildArgs() []string {
	filters := make([]string, 0, len(c.cues))
	for _, cue := range c.cues {
		filters = append(filters, c.drawtextFilter(cue))
	}

	args := []string{"-i", c.videoInput}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	args = append(args, "-c:v", c.encoder, "-c:a", c.audioCodec, "-y", c.outputPath)
	return args
}

func (c *CompositeBuilder) drawtextFilter(cue CompositeCue) string {
	text := strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`).Replace(cue.Text)
	parts := []string{
		fmt.Sprintf("text='%s'", text),
		fmt.Sprintf("fontsize=%d", c.fontSize),
		fmt.Sprintf("fontcolor=%s", c.foreColor),
		fmt.Sprintf("bordercolor=%s", c.strokeColor),
		fmt.Sprintf("borderw=%d", c.strokeWidth),
		fmt.Sprintf("x=%s", c.x),
		fmt.Sprintf("y=%s", c.y),
		fmt.Sprintf("enable='between(t,%g,%g)'", cue.Start, cue.End),
	}
	if c.fontFile != "" {
		parts = append([]string{fmt.Sprintf("fontfile='%s'", c.fontFile)}, parts...)
	}
	return "drawtext=" + strings.Join(parts, ":")
}

// Run executes the composite pass through the Runner bound by SetExecContext.
func (c *CompositeBuilder) Run() error {
	if c.run == nil {
		return fmt.Errorf("subtitle composite builder: SetExecContext was never called")
	}
	ffmpegPath, err := c.run.ResolveFFmpeg()
	if err != nil {
		return err
	}
	res, err := c.run.Run(c.ctx, ffmpegPath, c.BuildArgs(), c.timeout)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("ffmpeg exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

// DryRun returns the command as a printable string without executing it.
func (c *CompositeBuilder) DryRun() (string, error) {
	return "ffmpeg " + strings.Join(c.BuildArgs(), " "), nil
}

// SetPriority implements command.Command.
func (c *CompositeBuilder) SetPriority(priority int) command.Command {
	c.priority = priority
	return c
}

// GetPriority returns the task priority.
func (c *CompositeBuilder) GetPriority() int { return c.priority }

// GetTaskType returns command.TaskTypeSubtitle.
func (c *CompositeBuilder) GetTaskType() command.TaskType { return command.TaskTypeSubtitle }

// GetInputPath returns the video input path.
func (c *CompositeBuilder) GetInputPath() string { return c.videoInput }

// GetOutputPath returns the output file path.
func (c *CompositeBuilder) GetOutputPath() string { return c.outputPath }
