package errors

import (
	"strings"
	"unicode"
)

// maxTextLength bounds the side text; the front wall of the default trophy
// fits roughly a hundred glyphs at the default text height.
const maxTextLength = 256

// ValidateText validates the side text engraved on the plinth.
//
// The validation rules:
//   - No empty text (omit the flag instead)
//   - No control characters (newlines, tabs, null bytes)
//   - Maximum length of 256 runes
func ValidateText(text string) error {
	if text == "" {
		return New(ErrCodeConfig, "side text cannot be empty")
	}

	if n := len([]rune(text)); n > maxTextLength {
		return New(ErrCodeConfig, "side text too long (%d runes, max %d)", n, maxTextLength)
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeConfig, "side text contains control characters")
		}
	}

	return nil
}

// ValidateOutputStem validates the output path stem. The exporter appends
// ".ply" and ".stl", so the stem must name a file, not a directory.
//
// Validation rules:
//   - Stem cannot be empty
//   - No null bytes or control characters
//   - Must not end with a path separator
func ValidateOutputStem(stem string) error {
	if stem == "" {
		return New(ErrCodeConfig, "output path cannot be empty")
	}

	for _, r := range stem {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeConfig, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(stem, "/") || strings.HasSuffix(stem, "\\") {
		return New(ErrCodeConfig, "output path must name a file, not a directory: %q", stem)
	}

	return nil
}

// ValidateCommitterNames rejects empty entries in a committer allow-list.
// An empty name could never match (commits without a name are excluded),
// so it almost always indicates a quoting mistake on the command line.
func ValidateCommitterNames(names []string) error {
	for i, name := range names {
		if name == "" {
			return New(ErrCodeConfig, "committer name at position %d is empty", i+1)
		}
	}
	return nil
}
