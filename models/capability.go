package models

// GPUVendor identifies the detected hardware encoding vendor.
type GPUVendor string

const (
	VendorNVIDIA GPUVendor = "nvidia"
	VendorIntel  GPUVendor = "intel"
	VendorAMD    GPUVendor = "amd"
	VendorApple  GPUVendor = "apple"
	VendorNone   GPUVendor = "none"
)

// CapabilityVerdict is the memoized, process-wide result of probing the
// host for GPU encoding and scaling support. Once populated it is
// immutable; see capability.Probe for the publication rules.
type CapabilityVerdict struct {
	Vendor       GPUVendor
	VideoEncoder string // e.g. "h264_nvenc", "libx264"
	ScaleFilter  string // e.g. "scale_npp"; empty means no GPU scale path
}

// HasGPUScale reports whether the verdict names a usable GPU scale filter.
func (v CapabilityVerdict) HasGPUScale() bool {
	return v.ScaleFilter != ""
}

// IsGPUEncoder reports whether the verdict's encoder runs on GPU hardware
// (as opposed to the CPU fallback libx264).
func (v CapabilityVerdict) IsGPUEncoder() bool {
	return v.VideoEncoder != "" && v.VideoEncoder != DefaultCPUVideoCodec
}

// DefaultCPUVideoCodec is the universal software fallback encoder.
const DefaultCPUVideoCodec = "libx264"

// DefaultAudioCodec is the audio codec used for every encode in the
// pipeline, narration mixing included.
const DefaultAudioCodec = "aac"

// DefaultFrameRate is the frame rate applied when a clip doesn't otherwise
// constrain it.
const DefaultFrameRate = 30
