package subtitle

import "strings"

const defaultASSColor = "&HFFFFFF&"

// HexToASSColor converts a "#RRGGBB" hex color to an ASS "&HBBGGRR&"
// color string (ASS stores colors in BGR byte order). Any input that
// isn't exactly 6 hex digits after stripping "#" falls back to white.
func HexToASSColor(hex string) string {
	hex = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(hex) != 6 || !isHex(hex) {
		return defaultASSColor
	}
	r, g, b := hex[0:2], hex[2:4], hex[4:6]
	return "&H" + strings.ToUpper(b+g+r) + "&"
}

// ASSToHex is the inverse of HexToASSColor, used by tests to check the
// round-trip law holds for well-formed uppercase hex input. It expects
// the "&HBBGGRR&" shape HexToASSColor produces.
func ASSToHex(ass string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(ass, "&H"), "&")
	if len(body) != 6 || !isHex(body) {
		return "#FFFFFF"
	}
	b, g, r := body[0:2], body[2:4], body[4:6]
	return "#" + strings.ToUpper(r+g+b)
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
