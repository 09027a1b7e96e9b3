package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Clinical palette shared with the print rendering.
var (
	clinicalBlue = [3]int{12, 58, 111}
	darkText     = [3]int{26, 26, 26}
)

// PDFWriter renders a treatment plan as an A4 document.
type PDFWriter struct {
	// Signature controls whether the pharmacist signature line is
	// drawn in the footer.
	Signature bool
}

func NewPDFWriter() *PDFWriter {
	return &PDFWriter{Signature: true}
}

func (w *PDFWriter) WritePlan(plan *Plan) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	const margin = 15.0
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(clinicalBlue[0], clinicalBlue[1], clinicalBlue[2])
	pdf.CellFormat(contentW, 8, tr(plan.CenterName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(contentW, 6, tr("Servicio de Farmacia"), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(clinicalBlue[0], clinicalBlue[1], clinicalBlue[2])
	y := pdf.GetY() + 2
	pdf.Line(margin, y, pageW-margin, y)
	pdf.SetY(y + 4)

	w.patientBlock(pdf, tr, plan)
	w.matrixBlock(pdf, tr, plan, contentW)
	w.scheduleTable(pdf, tr, plan, contentW)
	w.warningsBlock(pdf, tr, contentW)
	w.footer(pdf, tr, plan, margin, pageW)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *PDFWriter) sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(clinicalBlue[0], clinicalBlue[1], clinicalBlue[2])
	pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(darkText[0], darkText[1], darkText[2])
}

func (w *PDFWriter) patientBlock(pdf *fpdf.Fpdf, tr func(string) string, plan *Plan) {
	w.sectionTitle(pdf, tr, "INFORMACIÓN DEL PACIENTE")
	pdf.SetFont("Helvetica", "", 10)

	name, cedula, age, conditions := "No especificado", "N/A", "N/A", "No reportadas"
	if p := plan.Patient; p != nil {
		if p.FullName != "" {
			name = p.FullName
		}
		if p.Cedula != "" {
			cedula = p.Cedula
		}
		if a := p.Age(plan.GeneratedAt); a >= 0 {
			age = fmt.Sprintf("%d años", a)
		}
		if p.MedicalConditions != "" {
			conditions = p.MedicalConditions
		}
	}

	rows := []struct{ label, value string }{
		{"Nombre:", name},
		{"Cédula:", cedula},
		{"Edad:", age},
		{"Alergias/Contraindicaciones:", conditions},
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 6, tr(r.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(r.value), "", 1, "L", false, 0, "")
	}
}

func (w *PDFWriter) matrixBlock(pdf *fpdf.Fpdf, tr func(string) string, plan *Plan, contentW float64) {
	w.sectionTitle(pdf, tr, "PLANNING VISUAL - MATRIZ HORARIA")

	if len(plan.Rows) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 6, tr("No hay medicamentos asignados en el calendario."), "", 1, "L", false, 0, "")
		pdf.SetTextColor(darkText[0], darkText[1], darkText[2])
		return
	}

	matrix := plan.BuildMatrix()
	nameW := 40.0
	hourW := (contentW - nameW) / float64(len(TimelineHours))

	// Header row
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetFillColor(clinicalBlue[0], clinicalBlue[1], clinicalBlue[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(nameW, 6, tr("Medicamento"), "1", 0, "C", true, 0, "")
	for _, h := range TimelineHours {
		pdf.CellFormat(hourW, 6, HourLabel(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(darkText[0], darkText[1], darkText[2])

	for _, row := range matrix.Rows {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(nameW, 6, tr(truncate(row.Name, 28)), "1", 0, "L", false, 0, "")
		for _, mark := range row.Marks {
			if mark {
				// ZapfDingbats '4' is a checkmark glyph.
				pdf.SetFont("ZapfDingbats", "", 7)
				pdf.CellFormat(hourW, 6, "4", "1", 0, "C", false, 0, "")
				pdf.SetFont("Helvetica", "", 7)
			} else {
				pdf.CellFormat(hourW, 6, "", "1", 0, "C", false, 0, "")
			}
		}
		pdf.Ln(-1)

		if row.Instructions != "" {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.SetTextColor(100, 100, 100)
			pdf.MultiCell(contentW, 4, tr("Indicaciones: "+row.Instructions), "1", "L", false)
			pdf.SetTextColor(darkText[0], darkText[1], darkText[2])
		}
	}
}

func (w *PDFWriter) scheduleTable(pdf *fpdf.Fpdf, tr func(string) string, plan *Plan, contentW float64) {
	w.sectionTitle(pdf, tr, "PAUTA DE ADMINISTRACIÓN DE MEDICAMENTOS")

	widths := []float64{50, 45, 40, contentW - 135}
	headers := []string{"Medicamento", "Principio Activo", "Horarios", "Instrucciones"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(clinicalBlue[0], clinicalBlue[1], clinicalBlue[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(darkText[0], darkText[1], darkText[2])

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range plan.Rows {
		cells := []string{
			truncate(row.Name, 32),
			truncate(row.ActivePrinciples, 28),
			HourList(row.Hours),
			truncate(row.Instructions, 40),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (w *PDFWriter) warningsBlock(pdf *fpdf.Fpdf, tr func(string) string, contentW float64) {
	w.sectionTitle(pdf, tr, "ADVERTENCIAS IMPORTANTES")

	pdf.SetFont("Helvetica", "", 9)
	for _, warning := range Warnings {
		pdf.MultiCell(contentW-4, 5, tr("• "+warning), "", "L", false)
		pdf.Ln(1)
	}
}

func (w *PDFWriter) footer(pdf *fpdf.Fpdf, tr func(string) string, plan *Plan, margin, pageW float64) {
	_, pageH := pdf.GetPageSize()

	pdf.SetY(pageH - 28)
	if w.Signature {
		pdf.SetDrawColor(darkText[0], darkText[1], darkText[2])
		pdf.Line(margin, pageH-22, margin+70, pageH-22)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Text(margin, pageH-17, tr("Firma del Farmacéutico"))
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	generated := fmt.Sprintf("Generado el: %s a las %s",
		plan.GeneratedAt.Format("02/01/2006"), plan.GeneratedAt.Format("15:04"))
	pdf.Text(margin, pageH-10, tr(generated))
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
