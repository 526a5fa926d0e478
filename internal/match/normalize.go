package match

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Punctuation that never carries meaning in a dish name. Hyphens are kept
// because the normalized form itself is hyphenated.
var punct = regexp.MustCompile(`[!"#$%&'()*+,./:;<=>?@\[\]\\^_{|}~]+`)

// Filenames like "P011 ten zaru udon.jpg" carry the catalog code humans
// prepend by hand: one letter, digits, then whitespace.
var codePrefix = regexp.MustCompile(`^[A-Za-z][0-9]+\s+`)

// Normalize canonicalizes a free-text name into a comparable slug:
// lowercase, punctuation stripped, whitespace runs collapsed, spaces
// replaced with hyphens. Idempotent.
func Normalize(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = punct.ReplaceAllString(out, "")
	out = strings.Join(strings.Fields(out), " ")
	return strings.ReplaceAll(out, " ", "-")
}

// ExtractNameFromFilename strips the extension and, when present, a single
// leading code prefix. A filename without either is returned unchanged.
func ExtractNameFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return codePrefix.ReplaceAllString(name, "")
}
