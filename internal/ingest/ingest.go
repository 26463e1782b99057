// Package ingest reads the language, feature, code and value tables from CSV
// files, XLSX workbooks or SQLite databases and normalizes them for analysis.
package ingest

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/littel/internal/model"
)

// ErrMissingColumn is returned when a table lacks a required column.
var ErrMissingColumn = eris.New("ingest: missing required column")

const (
	TableLanguages = "languages"
	TableFeatures  = "features"
	TableCodes     = "codes"
	TableValues    = "values"
)

var tableNames = []string{TableLanguages, TableFeatures, TableCodes, TableValues}

// LanguageRow is a raw language table row. Nullable columns are model.Value.
type LanguageRow struct {
	ID        string
	Name      string
	Parent    string
	Latitude  model.Value
	Longitude model.Value
	Earliest  model.Value
	Latest    model.Value
	Floruit   model.Value
}

// ValueRow is a raw observation row.
type ValueRow struct {
	LanguageID string
	FeatureID  string
	Date       model.Value
	Value      model.Value
}

// Tables holds the four raw tables as read from a source.
type Tables struct {
	Languages []LanguageRow
	Features  []model.Feature
	Codes     []model.Code
	Values    []ValueRow
}

// DirOptions configures LoadDir.
type DirOptions struct {
	Languages string // file names relative to the directory
	Features  string
	Codes     string
	Values    string
	CSV       CSVOptions
}

func (o DirOptions) fileName(table string) string {
	var name string
	switch table {
	case TableLanguages:
		name = o.Languages
	case TableFeatures:
		name = o.Features
	case TableCodes:
		name = o.Codes
	case TableValues:
		name = o.Values
	}
	if name == "" {
		name = table + ".csv"
	}
	return name
}

// LoadDir reads the four CSV tables from dir concurrently. Tables may be
// gzip or zstd compressed (see openTable).
func LoadDir(ctx context.Context, dir string, opts DirOptions) (*Tables, error) {
	results := make([][]Record, len(tableNames))

	g, gCtx := errgroup.WithContext(ctx)
	for i, table := range tableNames {
		path := filepath.Join(dir, opts.fileName(table))
		g.Go(func() error {
			f, path, err := openTable(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			recs, err := ReadCSV(gCtx, f, opts.CSV)
			if err != nil {
				return eris.Wrapf(err, "ingest: read %s", path)
			}
			results[i] = recs
			zap.L().Debug("ingest: read table",
				zap.String("table", table),
				zap.String("path", path),
				zap.Int("rows", len(recs)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := make(map[string][]Record, len(tableNames))
	for i, table := range tableNames {
		raw[table] = results[i]
	}
	return decodeTables(raw)
}

func decodeTables(raw map[string][]Record) (*Tables, error) {
	var t Tables
	var err error
	if t.Languages, err = decodeLanguages(raw[TableLanguages]); err != nil {
		return nil, err
	}
	if t.Features, err = decodeFeatures(raw[TableFeatures]); err != nil {
		return nil, err
	}
	if t.Codes, err = decodeCodes(raw[TableCodes]); err != nil {
		return nil, err
	}
	if t.Values, err = decodeValues(raw[TableValues]); err != nil {
		return nil, err
	}
	return &t, nil
}

func requireColumns(table string, recs []Record, cols ...string) error {
	if len(recs) == 0 {
		return nil
	}
	for _, col := range cols {
		if !recs[0].Has(col) {
			return eris.Wrapf(ErrMissingColumn, "%s.%s", table, col)
		}
	}
	return nil
}

func decodeLanguages(recs []Record) ([]LanguageRow, error) {
	if err := requireColumns(TableLanguages, recs, "ID"); err != nil {
		return nil, err
	}
	rows := make([]LanguageRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, LanguageRow{
			ID:        r.Get("ID"),
			Name:      r.Get("Name"),
			Parent:    r.Get("Parent"),
			Latitude:  parseNumber(r.Get("Latitude")),
			Longitude: parseNumber(r.Get("Longitude")),
			Earliest:  parseNumber(r.Get("Earliest")),
			Latest:    parseNumber(r.Get("Latest")),
			Floruit:   parseNumber(r.Get("Floruit")),
		})
	}
	return rows, nil
}

func decodeFeatures(recs []Record) ([]model.Feature, error) {
	if err := requireColumns(TableFeatures, recs, "Feature_ID"); err != nil {
		return nil, err
	}
	feats := make([]model.Feature, 0, len(recs))
	for _, r := range recs {
		feats = append(feats, model.Feature{
			ID:          r.Get("Feature_ID"),
			Description: r.Get("Description"),
		})
	}
	return feats, nil
}

func decodeCodes(recs []Record) ([]model.Code, error) {
	if err := requireColumns(TableCodes, recs, "Feature_ID", "Value"); err != nil {
		return nil, err
	}
	codes := make([]model.Code, 0, len(recs))
	for _, r := range recs {
		v, ok := parseNumber(r.Get("Value")).Get()
		if !ok {
			continue
		}
		codes = append(codes, model.Code{
			FeatureID:   r.Get("Feature_ID"),
			Value:       v,
			Description: r.Get("Description"),
		})
	}
	return codes, nil
}

func decodeValues(recs []Record) ([]ValueRow, error) {
	if err := requireColumns(TableValues, recs, "Language_ID", "Feature_ID", "Value"); err != nil {
		return nil, err
	}
	rows := make([]ValueRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, ValueRow{
			LanguageID: r.Get("Language_ID"),
			FeatureID:  r.Get("Feature_ID"),
			Date:       parseNumber(r.Get("Date")),
			Value:      parseNumber(r.Get("Value")),
		})
	}
	return rows, nil
}

// parseNumber parses a numeric cell. Empty cells and NA markers are missing.
func parseNumber(s string) model.Value {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none", "?":
		return model.Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing()
	}
	return model.Some(f)
}

// year converts a numeric date to a whole year, rounding half away from zero.
func year(f float64) int {
	return int(math.Round(f))
}
