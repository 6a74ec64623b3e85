package app

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeReportPDF renders a run report from Markdown into a simple PDF:
// headings get a bold font, table rows a monospace font, quoted excerpts an
// indent. It does not perform full Markdown layout.
func writeReportPDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	// Core fonts are cp1252; this maps the common non-ASCII runes.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		switch {
		case s == "":
			pdf.Ln(4)
		case s == "---":
			y := pdf.GetY()
			pdf.Line(10, y, 200, y)
			pdf.Ln(3)
		case strings.HasPrefix(s, "#"):
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 16.0
			switch {
			case i == 2:
				size = 13
			case i >= 3:
				size = 11.5
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(s, "|"):
			if strings.HasPrefix(s, "|---") {
				continue
			}
			pdf.SetFont("Courier", "", 8)
			pdf.MultiCell(0, 4, tr(s), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(s, ">"):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetX(16)
			pdf.MultiCell(0, 5, tr(strings.TrimSpace(strings.TrimPrefix(s, ">"))), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		default:
			pdf.MultiCell(0, 5, tr(s), "", "L", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}
