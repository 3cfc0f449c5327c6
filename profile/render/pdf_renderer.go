package render

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// PDFRenderer lays out profile text on PDF pages.
type PDFRenderer struct{}

// Render implements the service renderer contract.
func (PDFRenderer) Render(text string, opts Options) ([]byte, error) {
	return Render(text, opts)
}

// Render converts text into a paginated PDF. Blocks are placed in a single
// forward pass; a block that would cross the bottom margin moves whole to a
// new page when it fits on one, otherwise it is broken between lines.
func Render(text string, opts Options) ([]byte, error) {
	opts = opts.normalize()

	pdf := fpdf.New("P", "pt", opts.PageSize, "")
	pdf.SetMargins(opts.Margins.Left, opts.Margins.Top, opts.Margins.Right)
	pdf.SetAutoPageBreak(false, opts.Margins.Bottom)
	pdf.SetCreator("profile-backend", false)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	l := &layout{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		opts: opts,
	}
	l.start()

	if opts.Logo != nil && len(opts.Logo.Data) > 0 {
		if err := l.drawLogo(opts.Logo); err != nil {
			return nil, ioFailure(err)
		}
	}
	if title := strings.TrimSpace(opts.Title); title != "" {
		l.drawBlock(BlockTitle, []string{title})
	}

	for _, block := range SplitBlocks(text) {
		kind := Classify(block)
		if kind == BlockHeading {
			l.drawBlock(kind, []string{headingText(block)})
			continue
		}
		l.drawBlock(kind, strings.Split(block, "\n"))
	}

	if pdf.Err() {
		return nil, ioFailure(errors.Wrap(pdf.Error(), "layout pdf"))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ioFailure(errors.Wrap(err, "write pdf"))
	}
	return buf.Bytes(), nil
}

type layout struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	opts   Options
	y      float64
	top    float64
	bottom float64
	width  float64
}

func (l *layout) start() {
	pageW, pageH := l.pdf.GetPageSize()
	l.top = l.opts.Margins.Top
	l.bottom = pageH - l.opts.Margins.Bottom
	l.width = pageW - l.opts.Margins.Left - l.opts.Margins.Right
	l.newPage()
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = l.top
}

func (l *layout) drawLogo(logo *Logo) error {
	imageType := logo.imageType()
	if imageType == "" {
		return errors.New("unsupported logo image type")
	}
	opts := fpdf.ImageOptions{ImageType: imageType}
	info := l.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
	if l.pdf.Err() {
		return errors.Wrap(l.pdf.Error(), "decode logo")
	}
	if info == nil {
		return errors.New("decode logo")
	}

	w, h := info.Width(), info.Height()
	if w <= 0 || h <= 0 {
		return errors.New("logo has no size")
	}
	if w > maxLogoWidth {
		h = h * maxLogoWidth / w
		w = maxLogoWidth
	}
	l.pdf.ImageOptions("logo", l.opts.Margins.Left, l.y, w, h, false, opts, 0, "")
	l.y += h + 12
	return l.pdf.Error()
}

// drawBlock places the wrapped lines of one block starting at the cursor.
func (l *layout) drawBlock(kind BlockKind, rawLines []string) {
	style := StyleMap[kind]
	l.applyStyle(style)

	var lines []string
	for _, raw := range rawLines {
		lines = append(lines, l.wrap(strings.TrimRight(raw, " "))...)
	}
	if len(lines) == 0 {
		return
	}

	if l.moveWhole(float64(len(lines)) * style.LineHeight) {
		l.newPage()
	}
	for _, line := range lines {
		if l.y+style.LineHeight > l.bottom && l.y > l.top {
			l.newPage()
		}
		l.pdf.SetXY(l.opts.Margins.Left, l.y)
		l.pdf.CellFormat(l.width, style.LineHeight, l.tr(line), "", 0, "L", false, 0, "")
		l.y += style.LineHeight
	}
	l.y += style.SpaceAfter
}

// moveWhole reports whether a block of the given height should start on a
// fresh page: it would cross the bottom margin here but fits on an empty page.
func (l *layout) moveWhole(height float64) bool {
	if l.y <= l.top || l.y+height <= l.bottom {
		return false
	}
	return height <= l.bottom-l.top
}

func (l *layout) applyStyle(style BlockStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	l.pdf.SetFont(FontFamily, fontStyle, style.Size)
	r, g, b := hexRGB(style.Color)
	l.pdf.SetTextColor(r, g, b)
}

// wrap breaks one source line into lines that fit the text width using the
// current font. An empty source line yields one empty line.
func (l *layout) wrap(line string) []string {
	if line == "" {
		return []string{""}
	}
	// CellFormat pads each side by the cell margin.
	limit := l.width - 2*l.pdf.GetCellMargin()

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	words := strings.Fields(line)
	var out []string
	current := indent
	for _, word := range words {
		candidate := word
		if strings.TrimSpace(current) != "" {
			candidate = current + " " + word
		} else {
			candidate = current + word
		}
		if l.measure(candidate) <= limit {
			current = candidate
			continue
		}
		if strings.TrimSpace(current) != "" {
			out = append(out, current)
		}
		current = word
		for l.measure(current) > limit {
			head, tail := l.splitWord(current, limit)
			out = append(out, head)
			current = tail
		}
	}
	if strings.TrimSpace(current) != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func (l *layout) measure(s string) float64 {
	return l.pdf.GetStringWidth(l.tr(s))
}

// splitWord cuts an over-long word at the last rune that still fits. At
// least one rune is always kept so the loop in wrap terminates.
func (l *layout) splitWord(word string, limit float64) (string, string) {
	runes := []rune(word)
	cut := 1
	for i := 2; i <= len(runes); i++ {
		if l.measure(string(runes[:i])) > limit {
			break
		}
		cut = i
	}
	return string(runes[:cut]), string(runes[cut:])
}
