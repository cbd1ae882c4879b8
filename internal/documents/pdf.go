package documents

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// RenderPDF lays the acta out on a single A4 page. Layout mirrors the
// paper form: header boxes top right, legal text, hardware description
// rows, signature block, print date in the footer.
func RenderPDF(f Fields) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 14, 18)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header: org title left, boxed dept/revision block right.
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(110, 7, tr(orgTitle), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(64, 5, "Region / Dept.", "1", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(64, 5, tr(f.Departamento), "1", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(64, 5, deptBox, "1", 2, "L", false, 0, "")
	pdf.CellFormat(64, 5, "Revision Date: "+revisionDate, "1", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(20, 5, "FORM", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(40, 5, formCode, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, formTitle, "", 1, "L", false, 0, "")
	pdf.Ln(1)

	// Legal blocks.
	pdf.SetFont("Helvetica", "", 7)
	pdf.MultiCell(0, 3.4, tr(confidentialText), "", "J", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 4.2, tr(acknowledgedText), "", "J", false)
	pdf.Ln(4)

	// Hardware description rows.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Hardware Description:", "", 1, "L", false, 0, "")

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(55, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
	}

	row("Equipo/Modelo:", f.Modelo)
	row("Serial number:", f.Serie)
	row("Accesorios:", f.Accesorios)
	row("Fixed Asset Tag Number:", f.AssetTag)
	pdf.Ln(4)

	row("Associates Printed Name:", f.Nombre)
	row("Location:", f.Localidad)
	row("Date:", f.FechaAsignacion)
	pdf.Ln(10)

	// Signature line.
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(80, 6, "Signature: ______________________________", "", 1, "L", false, 0, "")

	// Footer: print date bottom right.
	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(140, 5, "Print Date:", "", 0, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, f.PrintDate, "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ErrInternal("pdf rendering failed: " + err.Error())
	}
	return buf.Bytes(), nil
}
