package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadWorkbook reads the four tables from the sheets named languages,
// features, codes and values of an XLSX workbook. Sheet names are matched
// case-insensitively; the first row of each sheet is its header.
func LoadWorkbook(path string) (*Tables, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheets := make(map[string]*xlsx.Sheet, len(f.Sheets))
	for _, s := range f.Sheets {
		sheets[strings.ToLower(strings.TrimSpace(s.Name))] = s
	}

	read := func(name string) ([]Record, error) {
		s, ok := sheets[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheetRecords(s), nil
	}

	raw := make(map[string][]Record, len(tableNames))
	for _, name := range tableNames {
		recs, err := read(name)
		if err != nil {
			return nil, err
		}
		raw[name] = recs
	}
	return decodeTables(raw)
}

func sheetRecords(sheet *xlsx.Sheet) []Record {
	var header []string
	var records []Record
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if header == nil {
			header = normalizeHeader(cells)
			continue
		}
		if isBlank(cells) {
			continue
		}
		records = append(records, zipRecord(header, cells))
	}
	return records
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
