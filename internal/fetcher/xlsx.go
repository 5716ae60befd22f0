package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX reader.
type XLSXOptions struct {
	SheetIndex int             // default 0; the register ships as a single sheet
	SkipRows   int             // header rows to skip
	HeaderCh   chan<- []string // optional: receives the first row
}

// ReadXLSX reads the register workbook and returns all rows as string
// slices. The Home Office has published the register in both CSV and XLSX
// form; this covers the latter.
func ReadXLSX(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (%d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	sheet := f.Sheets[opts.SheetIndex]

	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.Value
		}

		if i == 0 && opts.HeaderCh != nil {
			opts.HeaderCh <- cells
		}

		if i < opts.SkipRows {
			continue
		}
		rows = append(rows, cells)
	}

	return rows, nil
}
