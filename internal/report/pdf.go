package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth  = 0 // full width between margins
	lineHeight = 6
	bullet     = "•"
)

// RenderPDF writes sections to w as a Letter-sized PDF.
func RenderPDF(sections []Section, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, section := range sections {
		if section.Kind == SectionHeader {
			pdf.SetFont("Helvetica", "B", 20)
			pdf.SetTextColor(0x1f, 0x29, 0x37)
			pdf.MultiCell(pageWidth, 10, tr(section.Title), "", "C", false)
			pdf.Ln(6)
		} else {
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(0x25, 0x63, 0xeb)
			pdf.MultiCell(pageWidth, 8, tr(section.Title), "", "L", false)
			pdf.Ln(2)
		}

		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		for _, line := range section.Lines {
			pdf.MultiCell(pageWidth, lineHeight, tr(line), "", "L", false)
			pdf.Ln(1)
		}

		left, _, _, _ := pdf.GetMargins()
		for _, item := range section.Bullets {
			pdf.SetX(left + 5)
			pdf.CellFormat(5, lineHeight, tr(bullet), "", 0, "L", false, 0, "")
			pdf.MultiCell(pageWidth, lineHeight, tr(item), "", "L", false)
		}

		if section.Kind == SectionHeader {
			pdf.Ln(6)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
