package sponsor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	"github.com/ukvisatools/sponsorcheck/internal/fetcher"
)

// ErrDataSource marks a register source that is missing or unreadable.
// Without a loaded registry the process must not serve queries.
var ErrDataSource = eris.New("sponsor: register source unavailable")

// Register column headers as published on gov.uk.
const (
	colName   = "Organisation Name"
	colCity   = "Town/City"
	colCounty = "County"
	colRating = "Type & Rating"
	colRoute  = "Route"
)

// Load reads the published register (CSV, or XLSX by extension) and builds
// the in-memory indexes. Rows with an empty organisation name are dropped;
// missing optional columns default to empty strings. The file is decoded
// permissively: invalid bytes are substituted, never fatal.
func Load(ctx context.Context, path string) (*Registry, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}
	return loadCSV(ctx, path)
}

func loadCSV(ctx context.Context, path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(ErrDataSource, "open %s: %v", path, err)
	}
	defer f.Close() //nolint:errcheck

	// The register is a government export with occasional stray bytes;
	// substitute anything that is not valid UTF-8.
	reader := unicode.UTF8.NewDecoder().Reader(f)

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, reader, fetcher.CSVOptions{
		HasHeader:  true,
		HeaderCh:   headerCh,
		LazyQuotes: true,
	})

	var header []string
	select {
	case header = <-headerCh:
	case err := <-errCh:
		if err != nil {
			return nil, eris.Wrapf(ErrDataSource, "read header from %s: %v", path, err)
		}
		// The parser already finished; a small file's header may still be
		// buffered. No header at all means an empty file, empty registry.
		select {
		case header = <-headerCh:
		default:
			return newRegistry(), nil
		}
	}

	cols := columnIndexes(header)
	reg := newRegistry()
	skipped := 0

	for row := range rowCh {
		rec := Record{
			Name:   cellAt(row, cols[colName]),
			City:   cellAt(row, cols[colCity]),
			County: cellAt(row, cols[colCounty]),
			Rating: cellAt(row, cols[colRating]),
			Route:  cellAt(row, cols[colRoute]),
		}
		if rec.Name == "" {
			skipped++
			continue
		}
		reg.add(rec)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(ErrDataSource, "read %s: %v", path, err)
	}

	zap.L().Info("sponsor register loaded",
		zap.String("path", path),
		zap.Int("records", reg.Len()),
		zap.Int("skipped", skipped),
	)
	return reg, nil
}

func loadXLSX(path string) (*Registry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(ErrDataSource, "stat %s: %v", path, err)
	}

	headerCh := make(chan []string, 1)
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{
		SkipRows: 1,
		HeaderCh: headerCh,
	})
	if err != nil {
		return nil, eris.Wrapf(ErrDataSource, "read %s: %v", path, err)
	}

	var header []string
	select {
	case header = <-headerCh:
	default:
	}

	cols := columnIndexes(header)
	reg := newRegistry()
	skipped := 0
	for _, row := range rows {
		rec := Record{
			Name:   cellAt(row, cols[colName]),
			City:   cellAt(row, cols[colCity]),
			County: cellAt(row, cols[colCounty]),
			Rating: cellAt(row, cols[colRating]),
			Route:  cellAt(row, cols[colRoute]),
		}
		if rec.Name == "" {
			skipped++
			continue
		}
		reg.add(rec)
	}

	zap.L().Info("sponsor register loaded",
		zap.String("path", path),
		zap.Int("records", reg.Len()),
		zap.Int("skipped", skipped),
	)
	return reg, nil
}

// columnIndexes maps the known register headers to their positions.
// Unknown layout entries resolve to -1 and read as empty strings.
func columnIndexes(header []string) map[string]int {
	cols := map[string]int{
		colName:   -1,
		colCity:   -1,
		colCounty: -1,
		colRating: -1,
		colRoute:  -1,
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if _, ok := cols[h]; ok {
			cols[h] = i
		}
	}
	return cols
}

// cellAt returns the trimmed cell value at idx, or "" when the row is
// short or the column is absent. Surrounding quotes from inconsistent
// export quoting are stripped as well.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(row[idx]), `"`)
}
