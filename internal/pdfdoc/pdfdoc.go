// Package pdfdoc reads text out of PDF files and writes translations back as
// two-section PDF documents.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of every page of the PDF at path, pages
// separated by a blank line.
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// Document is the content of an exported translation.
type Document struct {
	Original   string
	Translated string
	// Language is the display name of the translation's language.
	Language string
}

type ExportOptions struct {
	// FontPath is a TTF file with glyphs for the translated script. Without
	// it the core Helvetica font is used, which only covers Latin-1.
	FontPath string
}

const (
	bodyFamily = "body"
	lineHeight = 6.0
)

// Export writes doc to w as an A4 PDF with an "Original Text:" section
// followed by a "Translated Text (<language>):" section.
func Export(w io.Writer, doc Document, opts ExportOptions) error {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetTitle("Translation", true)
	p.SetMargins(15, 15, 15)
	p.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	encode := func(s string) string { return s }
	if opts.FontPath != "" {
		ttf, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return fmt.Errorf("read font: %w", err)
		}
		p.AddUTF8FontFromBytes(bodyFamily, "", ttf)
		family = bodyFamily
	} else {
		encode = p.UnicodeTranslatorFromDescriptor("")
		if !isLatin1(doc.Original) || !isLatin1(doc.Translated) {
			slog.Warn("exporting non-Latin text without a UTF-8 font; some characters will not render", "language", doc.Language)
		}
	}
	if err := p.Error(); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	p.AddPage()
	section(p, family, encode, "Original Text:", doc.Original)
	p.Ln(lineHeight)
	section(p, family, encode, fmt.Sprintf("Translated Text (%s):", doc.Language), doc.Translated)

	if err := p.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return p.Output(w)
}

// ExportBytes is Export into memory.
func ExportBytes(doc Document, opts ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(p *fpdf.Fpdf, family string, encode func(string) string, heading, body string) {
	p.SetFont(family, "", 14)
	p.CellFormat(0, lineHeight+2, encode(heading), "", 1, "L", false, 0, "")
	p.SetFont(family, "", 12)
	p.MultiCell(0, lineHeight, encode(body), "", "L", false)
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}
