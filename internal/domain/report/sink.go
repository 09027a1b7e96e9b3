package report

// Sheet is one named grid of a workbook. Rows are plain cell values;
// Widths are optional per-column character widths.
type Sheet struct {
	Name   string
	Widths []float64
	Rows   [][]string
}

// SheetWriter renders a set of sheets into a spreadsheet document.
// Keeping the surface this narrow means the renderer never touches a
// spreadsheet library's cell-styling API directly.
type SheetWriter interface {
	WriteSheets(sheets []Sheet) ([]byte, error)
}

// DocumentWriter renders a treatment plan into a printable document.
type DocumentWriter interface {
	WritePlan(plan *Plan) ([]byte, error)
}
