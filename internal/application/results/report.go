package results

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteReport renders the current tally as an A4 PDF.
func (s *service) WriteReport(ctx context.Context, w io.Writer) error {
	t, err := s.Tally(ctx)
	if err != nil {
		return err
	}
	return renderReport(t, w)
}

func renderReport(t *Tally, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Election results", false)
	pdf.SetAuthor("Student Election Office", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Election results", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+t.GeneratedAt.Format("02 Jan 2006 15:04 MST"), "", 1, "C", false, 0, "")
	hr(pdf)

	sectionTitle(pdf, "Turnout")
	kvLine(pdf, "Registered", fmt.Sprintf("%d", t.Turnout.Total))
	kvLine(pdf, "Voted", fmt.Sprintf("%d (%.1f%%)", t.Turnout.Voted, t.Turnout.Percent))
	kvLine(pdf, "Verified, not voted", fmt.Sprintf("%d", t.Turnout.Verified))
	kvLine(pdf, "Blocked", fmt.Sprintf("%d", t.Turnout.Blocked))
	hr(pdf)

	for _, p := range t.Positions {
		state := "closed"
		if p.Open {
			state = "open"
		}
		sectionTitle(pdf, tr(fmt.Sprintf("%s (%d seat(s), %s)", p.Name, p.Seats, state)))

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(110, 7, "Candidate", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, "Votes", "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 7, "Share", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		if len(p.Candidates) == 0 {
			pdf.CellFormat(170, 7, "No approved candidates", "1", 1, "L", false, 0, "")
		}
		for _, c := range p.Candidates {
			name := c.Name
			if c.Leading {
				name += " *"
			}
			share := 0.0
			if p.TotalVotes > 0 {
				share = float64(c.Votes) * 100 / float64(p.TotalVotes)
			}
			pdf.CellFormat(110, 7, tr(name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%d", c.Votes), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%.1f%%", share), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "* leading for an available seat", "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render results pdf: %w", err)
	}
	return nil
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, s, "", 1, "L", false, 0, "")
}

func kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 2
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(20, y, 190, y)
	pdf.Ln(5)
}
