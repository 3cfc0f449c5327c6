package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlockKind is the layout classification of a block.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockBody    BlockKind = "body"
	BlockTitle   BlockKind = "title"
)

// maxHeadingLen is the exclusive rune limit for a heading candidate.
const maxHeadingLen = 80

// HeadingRule is one named predicate of the heading classifier.
type HeadingRule struct {
	Name  string
	Match func(line string) bool
}

// HeadingRules are evaluated in order against single-line blocks shorter
// than maxHeadingLen. The first match makes the block a heading.
var HeadingRules = []HeadingRule{
	{Name: "ends-with-colon", Match: endsWithColon},
	{Name: "all-upper", Match: allUpper},
	{Name: "leading-digit", Match: leadingDigit},
	{Name: "bullet-or-emoji-marker", Match: leadingMarker},
}

var bulletMarkers = []string{"#", "-", "*", "+", ">", "•"}

// SplitBlocks splits text on blank lines, trimming each block and dropping
// empty ones.
func SplitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		blocks = append(blocks, part)
	}
	return blocks
}

// Classify returns BlockHeading when any heading rule matches block.
func Classify(block string) BlockKind {
	if MatchRule(block) != "" {
		return BlockHeading
	}
	return BlockBody
}

// MatchRule returns the name of the first heading rule matching block, or ""
// when the block is body text.
func MatchRule(block string) string {
	line := strings.TrimSpace(block)
	if line == "" || strings.Contains(line, "\n") || utf8.RuneCountInString(line) >= maxHeadingLen {
		return ""
	}
	for _, rule := range HeadingRules {
		if rule.Match(line) {
			return rule.Name
		}
	}
	return ""
}

func endsWithColon(line string) bool {
	return strings.HasSuffix(line, ":")
}

func allUpper(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func leadingDigit(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsDigit(r)
}

func leadingMarker(line string) bool {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.Is(unicode.So, r)
}

// headingText drops markdown decoration the model sometimes adds around
// section labels.
func headingText(line string) string {
	line = strings.TrimLeft(line, "# ")
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4 {
		line = strings.TrimSpace(line[2 : len(line)-2])
	}
	return line
}
