package assignment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxFilenameLen = 255

// SanitizeFilename turns a client supplied filename into a safe display name:
// path separators become underscores, control & unsafe characters are dropped,
// whitespace is collapsed and leading/trailing dots & underscores are trimmed.
// eg. "../../etc/passwd" -> "etc_passwd". The result may be empty.
func SanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(raw) {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune(' ')
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}

	name := strings.Join(strings.Fields(b.String()), "_")
	name = strings.Trim(name, "._")

	if len(name) > maxFilenameLen {
		// keep the extension
		ext := ""
		if i := strings.LastIndexByte(name, '.'); i > 0 && len(name)-i <= 16 {
			ext = name[i:]
		}
		name = truncate(name[:len(name)-len(ext)], maxFilenameLen-len(ext)) + ext
	}
	return name
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
