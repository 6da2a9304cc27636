package session

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RomExt is the extension given to randomized images.
const RomExt = ".gba"

// OutputName derives the download name for a patched image:
// "<base>_<flags>_<seed>.gba", where base is romName without directory and
// ".gba" extension. Spaces become '-' and accents are folded to ASCII.
func OutputName(romName string, o Options) string {
	base := strings.TrimSuffix(filepath.Base(romName), RomExt)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	name := base + "_" + o.Flags() + "_" + o.Seed + RomExt
	return strings.ReplaceAll(foldASCII(name), " ", "-")
}

// foldASCII strips combining marks after canonical decomposition and drops
// anything that is still not printable ASCII or is a path separator.
func foldASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r > unicode.MaxASCII || !unicode.IsPrint(r) || r == '/' || r == '\\' || r == ':'
		})),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
