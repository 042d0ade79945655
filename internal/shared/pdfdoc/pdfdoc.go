// Package pdfdoc lays out simple block documents (headings, paragraphs,
// bullets) as word-wrapped A4 PDFs or plain text.
package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Kind is the visual role of a block.
type Kind int

const (
	Title Kind = iota
	Heading
	Paragraph
	Bullet
	Spacer
)

// Block is one unit of document content.
type Block struct {
	Kind Kind
	Text string
}

const (
	margin       = 15.0
	footerSpace  = 15.0
	bulletIndent = 5.0
)

var lineHeights = map[Kind]float64{
	Title:     9,
	Heading:   7,
	Paragraph: 5,
	Bullet:    5,
	Spacer:    4,
}

// Render writes blocks to an A4 PDF. Pages break manually before any line that
// would cross into the footer area and every page carries footer plus a page number.
func Render(blocks []Block, footer string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerSpace + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		text := fmt.Sprintf("Page %d", pdf.PageNo())
		if footer != "" {
			text = tr(footer) + "  |  " + text
		}
		pdf.CellFormat(0, 8, text, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	bottom := pageH - footerSpace
	width := pageW - 2*margin

	for _, b := range blocks {
		lh := lineHeights[b.Kind]
		if b.Kind == Spacer {
			if pdf.GetY()+lh > bottom {
				pdf.AddPage()
				continue
			}
			pdf.Ln(lh)
			continue
		}

		setFont(pdf, b.Kind)
		indent := 0.0
		if b.Kind == Bullet {
			indent = bulletIndent
		}
		lines := pdf.SplitLines([]byte(tr(b.Text)), width-indent)
		for i, line := range lines {
			if pdf.GetY()+lh > bottom {
				pdf.AddPage()
				setFont(pdf, b.Kind)
			}
			x := margin + indent
			if b.Kind == Bullet && i == 0 {
				pdf.SetX(margin)
				pdf.CellFormat(bulletIndent, lh, tr("•"), "", 0, "L", false, 0, "")
			}
			pdf.SetX(x)
			pdf.CellFormat(width-indent, lh, string(line), "", 1, "L", false, 0, "")
		}
		if b.Kind == Heading || b.Kind == Title {
			pdf.Ln(1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func setFont(pdf *fpdf.Fpdf, kind Kind) {
	switch kind {
	case Title:
		pdf.SetFont("Helvetica", "B", 16)
	case Heading:
		pdf.SetFont("Helvetica", "B", 12)
	default:
		pdf.SetFont("Helvetica", "", 10)
	}
}

// PlainText renders blocks as text: headings upper-cased and underlined,
// bullets prefixed with "• ", a blank line before each heading.
func PlainText(blocks []Block) string {
	var b strings.Builder
	for i, blk := range blocks {
		switch blk.Kind {
		case Title:
			b.WriteString(blk.Text)
			b.WriteString("\n")
			b.WriteString(strings.Repeat("=", len([]rune(blk.Text))))
			b.WriteString("\n")
		case Heading:
			if i > 0 {
				b.WriteString("\n")
			}
			title := strings.ToUpper(blk.Text)
			b.WriteString(title)
			b.WriteString("\n")
			b.WriteString(strings.Repeat("-", len([]rune(title))))
			b.WriteString("\n")
		case Bullet:
			b.WriteString("• ")
			b.WriteString(blk.Text)
			b.WriteString("\n")
		case Spacer:
			b.WriteString("\n")
		default:
			b.WriteString(blk.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
