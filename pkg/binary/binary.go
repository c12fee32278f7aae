// Package binary decides whether file contents can be captured as text.
package binary

import (
	"bytes"
	"unicode/utf8"
)

const (
	// DefaultSniffLen is how many leading bytes are inspected.
	DefaultSniffLen = 8 * 1024
	// DefaultMaxSuspiciousRatio is the share of control or invalid bytes in
	// the sniffed prefix above which content is binary.
	DefaultMaxSuspiciousRatio = 0.30
)

// Classifier holds the detection thresholds. The zero value uses the
// defaults.
type Classifier struct {
	SniffLen           int
	MaxSuspiciousRatio float64
}

// Default returns a classifier with the default thresholds.
func Default() Classifier {
	return Classifier{SniffLen: DefaultSniffLen, MaxSuspiciousRatio: DefaultMaxSuspiciousRatio}
}

func (c Classifier) sniffLen() int {
	if c.SniffLen <= 0 {
		return DefaultSniffLen
	}
	return c.SniffLen
}

func (c Classifier) maxRatio() float64 {
	if c.MaxSuspiciousRatio <= 0 {
		return DefaultMaxSuspiciousRatio
	}
	return c.MaxSuspiciousRatio
}

// IsBinary reports whether content should be treated as binary. Only a
// bounded prefix is scanned for NUL bytes and suspicious bytes. Content
// that passes the prefix checks must still be valid UTF-8 throughout,
// since it is stored as a YAML string.
func (c Classifier) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	prefix := content
	if n := c.sniffLen(); len(prefix) > n {
		prefix = prefix[:n]
	}
	if bytes.IndexByte(prefix, 0) >= 0 {
		return true
	}
	if SuspiciousRatio(prefix, len(prefix) < len(content)) > c.maxRatio() {
		return true
	}
	return !utf8.Valid(content)
}

// SuspiciousRatio returns the share of bytes in buf that are control
// characters other than common whitespace, or part of an invalid UTF-8
// sequence. When truncated is set, a rune cut off at the end of buf is not
// counted against it.
func SuspiciousRatio(buf []byte, truncated bool) float64 {
	if len(buf) == 0 {
		return 0
	}
	suspicious := 0
	for i := 0; i < len(buf); {
		b := buf[i]
		if b < utf8.RuneSelf {
			if isControl(b) {
				suspicious++
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size <= 1 {
			if truncated && !utf8.FullRune(buf[i:]) {
				break
			}
			suspicious++
			i++
			continue
		}
		i += size
	}
	return float64(suspicious) / float64(len(buf))
}

func isControl(b byte) bool {
	switch b {
	case '\t', '\n', '\r', '\f', '\v', '\b', 0x1b:
		return false
	}
	return b < 0x20 || b == 0x7f
}
