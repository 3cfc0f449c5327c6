package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"profile-backend/profile/render"
	"profile-backend/profile/sanitize"
)

func newRenderCmd() *cobra.Command {
	var (
		out      string
		pageSize string
		logoPath string
		title    string
		verify   bool
	)
	cmd := &cobra.Command{
		Use:   "render [text-file]",
		Short: "Sanitize profile text and render it as a PDF",
		Long: `Render reads profile text from a file (or stdin when no file or "-" is
given), sanitizes it and writes a PDF. With --verify the PDF is read back:
the page count is printed and the extracted text must contain every block.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readText(cmd, args)
			if err != nil {
				return err
			}
			text := sanitize.Clean(raw)

			opts := render.DefaultOptions()
			opts.PageSize = render.NormalizePageSize(pageSize)
			opts.Title = title
			if logoPath != "" {
				data, err := os.ReadFile(logoPath)
				if err != nil {
					return errors.Wrapf(err, "read logo %s", logoPath)
				}
				opts.Logo = &render.Logo{Data: data}
			}

			doc, err := render.Render(text, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return errors.Wrapf(err, "write %s", out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(doc))

			if verify {
				return verifyDocument(cmd.OutOrStdout(), doc, text)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "AI_Career_Profile.pdf", "Output PDF path")
	f.StringVar(&pageSize, "page-size", render.PageLetter, "Letter or A4")
	f.StringVar(&logoPath, "logo", "", "PNG, JPEG or GIF drawn at the top of the first page")
	f.StringVar(&title, "title", "", "Optional title line")
	f.BoolVar(&verify, "verify", false, "Read the PDF back and check its text")
	return cmd
}

func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "read %s", args[0])
	}
	return string(data), nil
}

// verifyDocument compares only ASCII letters and digits: the PDF wraps lines,
// drops heading markup and encodes accented text in WinAnsi.
func verifyDocument(w io.Writer, doc []byte, text string) error {
	info, err := render.Inspect(doc)
	if err != nil {
		return err
	}
	extracted, err := render.ExtractText(doc)
	if err != nil {
		return err
	}
	got := squeeze(extracted)
	for i, block := range render.SplitBlocks(text) {
		if !strings.Contains(got, squeeze(block)) {
			return errors.Errorf("block %d missing from PDF text: %q", i+1, firstLine(block))
		}
	}
	fmt.Fprintf(w, "verified %d pages, %d bytes\n", info.Pages, info.SizeBytes)
	return nil
}

func squeeze(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
