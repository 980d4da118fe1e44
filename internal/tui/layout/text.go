package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// PadRight pads s with spaces up to width visible characters.
func PadRight(s string, width int) string {
	n := VisibleLength(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// TruncateText truncates text to maxWidth with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	textLen := utf8.RuneCountInString(text)

	if textLen <= maxWidth {
		return text, false
	}

	if maxWidth <= ellipsisLen {
		runes := []rune(cfg.Ellipsis)
		return string(runes[:maxWidth]), true
	}

	runes := []rune(text)
	truncLen := maxWidth - ellipsisLen
	return string(runes[:truncLen]) + cfg.Ellipsis, true
}

// TruncatePathFromLeft shortens a slash-separated path by dropping leading
// characters, so the innermost folder stays readable.
// Example: "Work/Projects/Go" at width 10 -> "…jects/Go"
func TruncatePathFromLeft(path string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}

	runes := []rune(path)
	if len(runes) <= maxWidth {
		return path
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth])
	}

	keep := maxWidth - len(ellipsis)
	return cfg.Ellipsis + string(runes[len(runes)-keep:])
}

// TruncateWithPrefixSuffix truncates text while preserving prefix and suffix.
// Example: TruncateWithPrefixSuffix("Development", 10, "▸ ", " 3", cfg) -> "▸ Devel… 3"
// Returns the truncated text and whether truncation occurred.
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	combined := prefix + text + suffix
	if utf8.RuneCountInString(combined) <= maxWidth {
		return combined, false
	}

	overhead := utf8.RuneCountInString(prefix) + utf8.RuneCountInString(suffix) + utf8.RuneCountInString(cfg.Ellipsis)
	if overhead >= maxWidth {
		// Not even prefix + ellipsis + suffix fits
		return TruncateText(combined, maxWidth, cfg)
	}

	runes := []rune(text)
	return prefix + string(runes[:maxWidth-overhead]) + cfg.Ellipsis + suffix, true
}

// TruncateANSIAware truncates styled text, preserving ANSI codes.
// Search results highlight the matched part of a title, so their rows are
// styled before they are cut to width. A reset code is appended to prevent
// style bleed.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}

	if VisibleLength(styledText) <= maxWidth {
		return styledText
	}

	targetVisibleLen := maxWidth - utf8.RuneCountInString(cfg.Ellipsis)
	if targetVisibleLen < 0 {
		targetVisibleLen = 0
	}

	var result []byte
	var visibleCount int
	input := []byte(styledText)

	i := 0
	for i < len(input) && visibleCount < targetVisibleLen {
		if input[i] == '\x1b' && i+1 < len(input) && input[i+1] == '[' {
			j := i + 2
			for j < len(input) && input[j] != 'm' {
				j++
			}
			if j < len(input) {
				result = append(result, input[i:j+1]...)
				i = j + 1
				continue
			}
		}

		r, size := utf8.DecodeRune(input[i:])
		if r != utf8.RuneError {
			result = append(result, input[i:i+size]...)
			visibleCount++
		}
		i += size
	}

	result = append(result, cfg.Ellipsis...)
	result = append(result, "\x1b[0m"...)

	return string(result)
}
