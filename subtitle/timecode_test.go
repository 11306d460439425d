package subtitle

import "testing"

func TestSRTTimeToASSTime(t *testing.T) {
	cases := map[string]string{
		"00:00:01,000": "0:00:01.00",
		"01:02:03,456": "1:02:03.45",
		"00:00:00,009": "0:00:00.00",
		"12:00:00,990": "12:00:00.99",
	}
	for in, want := range cases {
		if got := SRTTimeToASSTime(in); got != want {
			t.Errorf("SRTTimeToASSTime(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSRTTimeToASSTime_MalformedPassesThrough(t *testing.T) {
	if got := SRTTimeToASSTime("garbage"); got != "garbage" {
		t.Errorf("expected malformed input passed through unchanged, got %q", got)
	}
}
