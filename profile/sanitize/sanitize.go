// Package sanitize reduces model output to text the PDF renderer can draw.
//
// The renderer uses the core Helvetica font, whose glyph set is Windows-1252.
// Anything outside that set is either mapped to a close ASCII form or removed,
// so Clean never fails on arbitrary input.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

type runeRange struct {
	lo, hi rune
}

// removedRanges lists pictographic and symbol blocks that have no glyph in
// the document font.
var removedRanges = []runeRange{
	{0x1F000, 0x1FAFF}, // emoji, pictographs, transport, supplemental symbols
	{0x2600, 0x27BF},   // misc symbols, dingbats
	{0x2B00, 0x2BFF},   // misc symbols and arrows
	{0x1F1E6, 0x1F1FF}, // regional indicators
	{0xFE00, 0xFE0F},   // variation selectors
	{0xE0000, 0xE007F}, // tags
	{0x2190, 0x21FF},   // arrows
	{0x2300, 0x23FF},   // misc technical
	{0x25A0, 0x25FF},   // geometric shapes
}

var zeroWidthRanges = []runeRange{
	{0x200B, 0x200F},
	{0x2060, 0x206F},
	{0xFEFF, 0xFEFF},
}

var asciiReplacements = map[rune]string{
	'\u2018': "'", '\u2019': "'", '\u201A': "'", '\u201B': "'", '\u2032': "'",
	'\u201C': `"`, '\u201D': `"`, '\u201E': `"`, '\u201F': `"`, '\u2033': `"`,
	'\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2013': "-", '\u2014': "-", '\u2015': "-", '\u2212': "-",
	'\u2026': "...",
	'\u2022': "-", '\u2023': "-", '\u2043': "-", '\u2219': "-",
	'\u00A0': " ", '\u202F': " ",
}

// cp1252Extras are the runes Windows-1252 places in 0x80-0x9F.
var cp1252Extras = map[rune]bool{
	'\u20AC': true, '\u0192': true, '\u2020': true, '\u2021': true, '\u02C6': true, '\u2030': true,
	'\u0160': true, '\u2039': true, '\u0152': true, '\u017D': true, '\u02DC': true, '\u2122': true,
	'\u0161': true, '\u203A': true, '\u0153': true, '\u017E': true, '\u0178': true,
}

var blankRun = regexp.MustCompile(`\n{3,}`)

// filter is swapped in tests to exercise the fallback path.
var filter = filterRunes

// Clean strips symbols, zero-width and control characters, normalises line
// endings and collapses runs of blank lines. It is idempotent and never
// panics: if the rune filter fails, ASCIIOnly is used instead.
func Clean(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ASCIIOnly(text)
		}
	}()
	return finish(filter(normalizeNewlines(text)))
}

// ASCIIOnly is the coarse fallback: every non-ASCII rune and control
// character except newline is dropped.
func ASCIIOnly(text string) string {
	text = normalizeNewlines(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t':
			b.WriteString("    ")
		case r >= 0x20 && r < 0x7F:
			b.WriteRune(r)
		}
	}
	return finish(b.String())
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func finish(text string) string {
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func filterRunes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t':
			b.WriteString("    ")
		case r == unicode.ReplacementChar, unicode.IsControl(r):
		case inRanges(r, removedRanges), inRanges(r, zeroWidthRanges):
		default:
			if repl, ok := asciiReplacements[r]; ok {
				b.WriteString(repl)
				continue
			}
			if inCP1252(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func inRanges(r rune, ranges []runeRange) bool {
	for _, rr := range ranges {
		if r >= rr.lo && r <= rr.hi {
			return true
		}
	}
	return false
}

func inCP1252(r rune) bool {
	switch {
	case r >= 0x20 && r < 0x7F:
		return true
	case r >= 0xA0 && r <= 0xFF:
		return true
	default:
		return cp1252Extras[r]
	}
}
