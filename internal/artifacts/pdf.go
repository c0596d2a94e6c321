package artifacts

import (
	"bytes"
	"fmt"

	"ticketflow/internal/shared/apperrors"

	"github.com/go-pdf/fpdf"
)

const qrImageName = "qr"

// RenderPDF lays doc out on one A4 page with the QR image. The document
// creation date is doc.IssuedAt so the same input yields the same bytes.
func RenderPDF(doc Document, qrPNG []byte) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetModificationDate(doc.IssuedAt)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr(doc.Heading+" "+doc.ConfirmationID), false)
	pdf.SetAuthor("TicketFlow", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	w, h := pdf.GetPageSize()

	// background and card
	pdf.SetFillColor(15, 23, 42)
	pdf.Rect(0, 0, w, h, "F")
	cardX, cardY, cardW, cardH := 18.0, 30.0, w-36, h-60
	pdf.SetFillColor(30, 41, 59)
	pdf.SetDrawColor(56, 189, 248)
	pdf.SetLineWidth(0.4)
	pdf.RoundedRect(cardX, cardY, cardW, cardH, 6, "1234", "FD")

	left := cardX + 10
	pdf.SetTextColor(226, 232, 240)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(left, cardY+20, tr(doc.Heading))

	pdf.SetTextColor(186, 230, 253)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(left, cardY+29, tr(doc.Greeting))

	y := cardY + 46
	field := func(label, value string) {
		pdf.SetTextColor(248, 250, 252)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(left, y, tr(label))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(left, y+6, tr(value))
		y += 16
	}
	field("Event", doc.Title)
	field("Venue", doc.Venue)
	field("Date", doc.Date)
	if doc.Holder != "" {
		field("Guest", doc.Holder)
	}
	if doc.Price != "" {
		field("Price", doc.Price)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(left, y, "Message")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(left, y+2)
	pdf.MultiCell(110, 5.5, tr(doc.Description), "", "L", false)

	// qr block on the right
	qrX, qrY, qrSize := cardX+cardW-70, cardY+46, 56.0
	pdf.SetFillColor(248, 250, 252)
	pdf.RoundedRect(qrX-4, qrY-4, qrSize+8, qrSize+8, 4, "1234", "F")
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(qrImageName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(qrImageName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	pdf.SetTextColor(203, 213, 225)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(qrX-4, qrY+qrSize+12, tr("Confirmation: "+doc.ConfirmationID))
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(qrX-4, qrY+qrSize+18, "Issued "+doc.IssuedAt.Format("2006-01-02 15:04 UTC"))

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: render pdf: %w", apperrors.ErrArtifact, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: write pdf: %w", apperrors.ErrArtifact, err)
	}
	return buf.Bytes(), nil
}
