package subtitle

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/image/font/sfnt"

	"videopipeline/models"
)

// fallbackFontNames maps a known font filename (lowercased) to the
// family name it would report, for the rare case the file can't be
// opened as an sfnt font but is still a recognized asset.
var fallbackFontNames = map[string]string{
	"microsoftyaheibold.ttc":   "Microsoft YaHei",
	"microsoftyaheinormal.ttc": "Microsoft YaHei",
	"stheitimedium.ttc":        "STHeiti",
	"stheitilight.ttc":         "STHeiti",
	"charm-bold.ttf":           "Charm",
	"charm-regular.ttf":        "Charm",
}

var styleSuffixes = []string{"bold", "regular", "medium", "light", "normal"}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// ResolveFontFamily opens fontPath and reads its family name from the
// font's name table. If the file can't be parsed, it falls back to a
// fixed filename→family map, and failing that, derives a family name
// from the filename by stripping style suffixes and title-casing.
func ResolveFontFamily(fontPath string) (string, error) {
	if fontPath == "" {
		return "Arial", nil
	}
	if _, err := os.Stat(fontPath); err != nil {
		return "", models.ErrFontMissing
	}

	if name, ok := readSFNTFamily(fontPath); ok {
		return name, nil
	}

	base := strings.ToLower(filepath.Base(fontPath))
	if name, ok := fallbackFontNames[base]; ok {
		return name, nil
	}

	return deriveFamilyFromFilename(base), nil
}

func readSFNTFamily(fontPath string) (string, bool) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return "", false
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", false
	}
	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func deriveFamilyFromFilename(base string) string {
	name := strings.TrimSuffix(base, filepath.Ext(base))
	for _, suffix := range styleSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
		}
	}
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	if name == "" {
		return "Arial"
	}
	return titleCase(name)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		for j := 1; j < len(r); j++ {
			r[j] = unicode.ToLower(r[j])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
