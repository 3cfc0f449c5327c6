package render

import (
	"bytes"
	"io"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// Info describes a rendered document.
type Info struct {
	Pages     int
	SizeBytes int
}

var disableConfigDir sync.Once

func pdfcpuConfig() *model.Configuration {
	// pdfcpu writes a config dir under $HOME unless told otherwise.
	disableConfigDir.Do(api.DisableConfigDir)
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Inspect validates doc and reports its page count.
func Inspect(doc []byte) (Info, error) {
	if len(doc) == 0 {
		return Info{}, errors.New("empty document")
	}
	pages, err := api.PageCount(bytes.NewReader(doc), pdfcpuConfig())
	if err != nil {
		return Info{}, errors.Wrap(err, "count pages")
	}
	return Info{Pages: pages, SizeBytes: len(doc)}, nil
}

// ExtractText returns the plain text of every page in doc.
func ExtractText(doc []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", errors.Wrap(err, "open pdf")
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "extract text")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", errors.Wrap(err, "read text")
	}
	return buf.String(), nil
}
