package render

import (
	"net/http"
	"strings"
)

const (
	PageLetter = "Letter"
	PageA4     = "A4"

	// DefaultMargin is three quarters of an inch, in points.
	DefaultMargin = 54.0
)

// Margins are page margins in points.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Logo is an image placed at the top-left of the first page.
type Logo struct {
	Data []byte
	// ImageType is "png", "jpg" or "gif". Empty means sniff from Data.
	ImageType string
}

// Options control page geometry and decoration.
type Options struct {
	PageSize string
	Margins  Margins
	Logo     *Logo
	Title    string
}

// DefaultOptions returns US Letter with 54pt margins.
func DefaultOptions() Options {
	return Options{
		PageSize: PageLetter,
		Margins:  Margins{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin},
	}
}

func (o Options) normalize() Options {
	switch strings.ToLower(strings.TrimSpace(o.PageSize)) {
	case "a4":
		o.PageSize = PageA4
	default:
		o.PageSize = PageLetter
	}
	if o.Margins.Top <= 0 {
		o.Margins.Top = DefaultMargin
	}
	if o.Margins.Right <= 0 {
		o.Margins.Right = DefaultMargin
	}
	if o.Margins.Bottom <= 0 {
		o.Margins.Bottom = DefaultMargin
	}
	if o.Margins.Left <= 0 {
		o.Margins.Left = DefaultMargin
	}
	return o
}

// NormalizePageSize maps user input to a supported page size.
func NormalizePageSize(raw string) string {
	return Options{PageSize: raw}.normalize().PageSize
}

func (l *Logo) imageType() string {
	if t := strings.ToLower(strings.TrimSpace(l.ImageType)); t != "" {
		if t == "jpeg" {
			return "jpg"
		}
		return t
	}
	switch http.DetectContentType(l.Data) {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	default:
		return ""
	}
}
