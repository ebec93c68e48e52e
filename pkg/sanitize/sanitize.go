// Package sanitize turns arbitrary display strings into names that are safe
// as single-segment file names and as HTTP header values.
package sanitize

import (
	"strings"
)

// illegal characters on common filesystems, plus the path separators that
// could be read as directory traversal if the name is ever reused as a path
const illegalChars = `<>:"/\|?*`

// Filename strips characters that are illegal in file names or that would
// break HTTP header encoding. The result is a single path segment with no
// control characters. Sanitizing an already-sanitized name is a no-op.
func Filename(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			// control characters break header values, drop them
		case strings.ContainsRune(illegalChars, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())

	// A name of only dots would collapse to a relative path component
	if strings.Trim(cleaned, ".") == "" {
		return ""
	}

	return cleaned
}

// EncodeRFC5987 percent-encodes a string for use in a
// Content-Disposition "filename*=utf-8''..." parameter. Only attr-char
// characters pass through unencoded.
func EncodeRFC5987(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}

	return b.String()
}

// ContentDisposition builds an attachment Content-Disposition header value
// for a sanitized display filename.
func ContentDisposition(filename string) string {
	return "attachment; filename*=utf-8''" + EncodeRFC5987(Filename(filename))
}

const upperhex = "0123456789ABCDEF"

// isAttrChar reports whether c is an attr-char per RFC 5987 section 3.2.1
func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '&', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
