package capability

import (
	"testing"

	"videopipeline/models"
)

func TestResolveVerdict_DemotesUnlistedEncoder(t *testing.T) {
	// ffmpeg binary resolved here never exists in the test sandbox, so the
	// -encoders/-filters listing checks fail closed and both axes demote.
	v := resolveVerdict("/nonexistent/ffmpeg-binary-for-tests", models.VendorNVIDIA)

	if v.VideoEncoder != models.DefaultCPUVideoCodec {
		t.Errorf("expected demotion to %s, got %s", models.DefaultCPUVideoCodec, v.VideoEncoder)
	}
	if v.ScaleFilter != "" {
		t.Errorf("expected scale filter demoted to empty, got %s", v.ScaleFilter)
	}
	if v.HasGPUScale() {
		t.Error("HasGPUScale should be false after demotion")
	}
	if v.IsGPUEncoder() {
		t.Error("IsGPUEncoder should be false after demotion to libx264")
	}
}

func TestResolveVerdict_NoneVendorIsAlwaysCPU(t *testing.T) {
	v := resolveVerdict("/nonexistent/ffmpeg-binary-for-tests", models.VendorNone)

	if v.Vendor != models.VendorNone {
		t.Errorf("expected vendor none, got %s", v.Vendor)
	}
	if v.VideoEncoder != models.DefaultCPUVideoCodec {
		t.Errorf("expected %s, got %s", models.DefaultCPUVideoCodec, v.VideoEncoder)
	}
	if v.ScaleFilter != "" {
		t.Errorf("expected no scale filter for vendor none, got %s", v.ScaleFilter)
	}
}

func TestProbe_MemoizesAcrossCalls(t *testing.T) {
	Reset()
	defer Reset()

	first := Probe("/nonexistent/ffmpeg-binary-for-tests")
	second := Probe("/some/other/path/that/would/change/vendor")

	if first != second {
		t.Errorf("expected memoized verdict to be stable across calls, got %+v then %+v", first, second)
	}
}

func TestListing_FailedProbeIsNotCached(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := listing("/nonexistent/ffmpeg-binary-for-tests", "-encoders"); ok {
		t.Fatal("expected listing against a nonexistent binary to fail")
	}
	listingMu.Lock()
	_, cached := listingCache["/nonexistent/ffmpeg-binary-for-tests\x00-encoders"]
	listingMu.Unlock()
	if cached {
		t.Error("a failed probe must not populate listingCache")
	}
}

func TestReset_ClearsListingCache(t *testing.T) {
	Reset()
	listingMu.Lock()
	listingCache["fake-path\x00-filters"] = "ass\nscale_npp\n"
	listingMu.Unlock()

	Reset()

	listingMu.Lock()
	_, ok := listingCache["fake-path\x00-filters"]
	listingMu.Unlock()
	if ok {
		t.Error("Reset should clear listingCache")
	}
}

func TestFirstLine(t *testing.T) {
	cases := map[string]string{
		"NVIDIA GeForce RTX 4090\n":    "NVIDIA GeForce RTX 4090",
		"NVIDIA GeForce RTX 4090\r\n":  "NVIDIA GeForce RTX 4090",
		"one\ntwo\nthree":              "one",
		"":                             "",
		"   padded line   \nsecond":    "padded line",
	}
	for in, want := range cases {
		if got := firstLine(in); got != want {
			t.Errorf("firstLine(%q) = %q, want %q", in, got, want)
		}
	}
}
