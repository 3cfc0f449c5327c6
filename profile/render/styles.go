package render

// BlockStyle captures the font and spacing used to draw one kind of block.
type BlockStyle struct {
	Bold       bool
	Size       float64
	Color      string
	LineHeight float64
	SpaceAfter float64
}

const (
	FontFamily   = "Helvetica"
	AccentColor  = "1F4E79"
	InkColor     = "222222"
	HeadingSize  = 14
	BodySize     = 11
	TitleSize    = 18
	maxLogoWidth = 120
)

// StyleMap centralizes the formatting for each block kind.
var StyleMap = map[BlockKind]BlockStyle{
	BlockHeading: {
		Bold:       true,
		Size:       HeadingSize,
		Color:      AccentColor,
		LineHeight: 18,
		SpaceAfter: 4,
	},
	BlockBody: {
		Size:       BodySize,
		Color:      InkColor,
		LineHeight: 15,
		SpaceAfter: 10,
	},
	BlockTitle: {
		Bold:       true,
		Size:       TitleSize,
		Color:      AccentColor,
		LineHeight: 24,
		SpaceAfter: 12,
	},
}

func hexRGB(hex string) (int, int, int) {
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		rgb[i] = hexNibble(hex[2*i])<<4 | hexNibble(hex[2*i+1])
	}
	return rgb[0], rgb[1], rgb[2]
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 0
	}
}
