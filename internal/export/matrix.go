package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/timeslice"
)

// MatrixSheet is the sheet name of the XLSX matrix.
const MatrixSheet = "matrix"

// matrix lays slices out as rows of languages and columns of dates. All
// slices must come from the same dataset.
type matrix struct {
	ids     []string
	dates   []int
	columns [][]model.Value
}

func newMatrix(ids []string, slices []*timeslice.Slice) matrix {
	m := matrix{ids: ids}
	for _, s := range slices {
		m.dates = append(m.dates, s.Date())
		m.columns = append(m.columns, s.MatrixColumn())
	}
	return m
}

func (m matrix) header() []string {
	out := make([]string, 0, len(m.dates)+1)
	out = append(out, "Language_ID")
	for _, d := range m.dates {
		out = append(out, strconv.Itoa(d))
	}
	return out
}

// MatrixCSV writes one row per registered language and one column per slice
// date. ids is the registry's ID list, which MatrixColumn follows. Missing
// estimates are empty cells.
func MatrixCSV(w io.Writer, ids []string, slices []*timeslice.Slice) error {
	m := newMatrix(ids, slices)

	cw := csv.NewWriter(w)
	if err := cw.Write(m.header()); err != nil {
		return eris.Wrap(err, "matrix: write header")
	}
	for i, id := range m.ids {
		row := make([]string, 0, len(m.columns)+1)
		row = append(row, id)
		for _, col := range m.columns {
			if v, ok := col[i].Get(); ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "matrix: write row %s", id)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "matrix: flush")
}

// MatrixXLSX saves the same layout as MatrixCSV to a workbook at path.
func MatrixXLSX(path string, ids []string, slices []*timeslice.Slice) error {
	m := newMatrix(ids, slices)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(MatrixSheet)
	if err != nil {
		return eris.Wrap(err, "matrix: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range m.header() {
		header.AddCell().SetString(h)
	}
	for i, id := range m.ids {
		row := sheet.AddRow()
		row.AddCell().SetString(id)
		for _, col := range m.columns {
			cell := row.AddCell()
			if v, ok := col[i].Get(); ok {
				cell.SetFloat(v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "matrix: save %s", path)
	}
	return nil
}
