// Package capability detects what hardware video encoding and scaling the
// host media tool can actually exercise, and memoizes the verdict for the
// life of the process.
package capability

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"videopipeline/models"
)

const (
	nvidiaSmiTimeout = 2 * time.Second
	listingTimeout   = 5 * time.Second
	minNVENCDriver   = 570
)

var (
	mu       sync.Mutex
	cached   models.CapabilityVerdict
	detected bool

	listingMu    sync.Mutex
	listingCache = map[string]string{}
)

// Probe returns the process-wide CapabilityVerdict, detecting it on first
// call and returning the cached result on every call after. ffmpegPath is
// the resolved media tool binary used for the -encoders/-filters listing
// checks; an empty string falls back to "ffmpeg" on PATH.
func Probe(ffmpegPath string) models.CapabilityVerdict {
	mu.Lock()
	defer mu.Unlock()
	if detected {
		return cached
	}
	detected = true

	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	vendor := detectVendor()
	cached = resolveVerdict(ffmpegPath, vendor)
	return cached
}

// Reset clears the memoized verdict. Tests use this to re-probe under a
// different fake environment; production code never calls it.
func Reset() {
	mu.Lock()
	detected = false
	cached = models.CapabilityVerdict{}
	mu.Unlock()

	listingMu.Lock()
	listingCache = map[string]string{}
	listingMu.Unlock()
}

func detectVendor() models.GPUVendor {
	if v, ok := detectNVIDIA(); ok {
		return v
	}
	if v, ok := detectWindowsController(); ok {
		return v
	}
	if v, ok := detectMacOS(); ok {
		return v
	}
	if v, ok := detectLinuxDRM(); ok {
		return v
	}
	return models.VendorNone
}

// detectNVIDIA queries nvidia-smi for a GPU name and, if present, its
// driver version. NVENC is only accepted when the driver's major version
// is at least minNVENCDriver.
func detectNVIDIA() (models.GPUVendor, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), nvidiaSmiTimeout)
	defer cancel()

	out, err := runHidden(ctx, "nvidia-smi", "--query-gpu=name", "--format=csv,noheader")
	if err != nil {
		return "", false
	}
	name := firstLine(out)
	if name == "" {
		return "", false
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), nvidiaSmiTimeout)
	defer cancel2()
	driverOut, err := runHidden(ctx2, "nvidia-smi", "--query-gpu=driver_version", "--format=csv,noheader")
	if err != nil {
		return "", false
	}
	driver := firstLine(driverOut)
	major := driver
	if idx := strings.Index(driver, "."); idx >= 0 {
		major = driver[:idx]
	}
	version, err := strconv.Atoi(strings.TrimSpace(major))
	if err != nil || version < minNVENCDriver {
		log.Printf("[capability] nvidia-smi present but driver %q below %d, skipping NVENC", driver, minNVENCDriver)
		return "", false
	}
	return models.VendorNVIDIA, true
}

func detectWindowsController() (models.GPUVendor, bool) {
	if runtime.GOOS != "windows" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), nvidiaSmiTimeout)
	defer cancel()

	out, err := runHidden(ctx, "wmic", "path", "win32_VideoController", "get", "name")
	if err != nil {
		return "", false
	}
	lower := strings.ToLower(out)
	if strings.Contains(lower, "intel") && (strings.Contains(lower, "uhd") || strings.Contains(lower, "iris") || strings.Contains(lower, "xe")) {
		return models.VendorIntel, true
	}
	if strings.Contains(lower, "amd") || strings.Contains(lower, "radeon") {
		return models.VendorAMD, true
	}
	return "", false
}

func detectMacOS() (models.GPUVendor, bool) {
	if runtime.GOOS != "darwin" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), nvidiaSmiTimeout)
	defer cancel()

	out, err := runHidden(ctx, "system_profiler", "SPDisplaysDataType")
	if err != nil {
		return "", false
	}
	if strings.Contains(out, "Apple") {
		return models.VendorApple, true
	}
	return "", false
}

func detectLinuxDRM() (models.GPUVendor, bool) {
	if runtime.GOOS != "linux" {
		return "", false
	}
	data, err := os.ReadFile("/sys/class/drm/card0/device/vendor")
	if err != nil {
		return "", false
	}
	switch strings.TrimSpace(string(data)) {
	case "0x8086":
		return models.VendorIntel, true
	case "0x1002":
		return models.VendorAMD, true
	}
	return "", false
}

// vendorTable names the preferred encoder/scale-filter pair per vendor,
// before the -encoders/-filters listing check demotes either axis.
var vendorTable = map[models.GPUVendor]struct {
	encoder string
	scale   string
}{
	models.VendorNVIDIA: {"h264_nvenc", "scale_npp"},
	models.VendorIntel:  {"h264_qsv", "scale_qsv"},
	models.VendorAMD:    {"h264_amf", ""},
	models.VendorApple:  {"h264_videotoolbox", ""},
	models.VendorNone:   {models.DefaultCPUVideoCodec, ""},
}

func resolveVerdict(ffmpegPath string, vendor models.GPUVendor) models.CapabilityVerdict {
	pref, ok := vendorTable[vendor]
	if !ok {
		pref = vendorTable[models.VendorNone]
	}

	verdict := models.CapabilityVerdict{Vendor: vendor, VideoEncoder: pref.encoder, ScaleFilter: pref.scale}

	if verdict.VideoEncoder != models.DefaultCPUVideoCodec && !encoderListed(ffmpegPath, verdict.VideoEncoder) {
		log.Printf("[capability] encoder %s not present in -encoders listing, demoting to %s", verdict.VideoEncoder, models.DefaultCPUVideoCodec)
		verdict.VideoEncoder = models.DefaultCPUVideoCodec
	}
	if verdict.ScaleFilter != "" && !filterListed(ffmpegPath, verdict.ScaleFilter) {
		log.Printf("[capability] scale filter %s not present in -filters listing, demoting to CPU scale", verdict.ScaleFilter)
		verdict.ScaleFilter = ""
	}
	return verdict
}

func encoderListed(ffmpegPath, encoder string) bool {
	out, ok := listing(ffmpegPath, "-encoders")
	if !ok {
		return false
	}
	return strings.Contains(out, encoder)
}

// FilterSupported reports whether ffmpegPath's -filters listing advertises
// filter (e.g. "ass" for the Final Muxer's subtitle burn-in gate). An empty
// ffmpegPath falls back to "ffmpeg" on PATH, same resolution as Probe.
func FilterSupported(ffmpegPath, filter string) bool {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return filterListed(ffmpegPath, filter)
}

func filterListed(ffmpegPath, filter string) bool {
	out, ok := listing(ffmpegPath, "-filters")
	if !ok {
		return false
	}
	return strings.Contains(out, filter)
}

// listing returns the raw output of ffmpegPath run with listFlag (one of
// "-encoders"/"-filters"), memoized per (ffmpegPath, listFlag) pair so
// repeated encoder/filter checks — e.g. the Final Muxer's subtitle burn-in
// gate re-checking "ass" support on every Finalize call — don't re-invoke
// the subprocess.
func listing(ffmpegPath, listFlag string) (string, bool) {
	key := ffmpegPath + "\x00" + listFlag

	listingMu.Lock()
	if out, ok := listingCache[key]; ok {
		listingMu.Unlock()
		return out, true
	}
	listingMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), listingTimeout)
	defer cancel()
	out, err := runHidden(ctx, ffmpegPath, "-hide_banner", listFlag)
	if err != nil {
		return "", false
	}

	listingMu.Lock()
	listingCache[key] = out
	listingMu.Unlock()
	return out, true
}

func firstLine(s string) string {
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// runHidden runs a probe subprocess without a visible console window on
// Windows (see hideWindow in hide_windows.go / hide_other.go) and
// returns its combined stdout and stderr.
func runHidden(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
