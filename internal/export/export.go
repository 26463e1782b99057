// Package export writes time slices and language × date matrices for
// mapping and spreadsheet tools.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/littel/internal/timeslice"
)

// SRID of exported geometries (WGS 84).
const SRID = 4326

// ErrUnsupportedFormat is returned for an unknown export format name.
var ErrUnsupportedFormat = eris.New("export: unsupported format")

// Format names an export target.
type Format string

const (
	FormatGeoJSON   Format = "geojson"
	FormatShapefile Format = "shapefile"
	FormatSQLite    Format = "sqlite"
	FormatCSV       Format = "csv"
	FormatXLSX      Format = "xlsx"
)

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatGeoJSON, FormatShapefile, FormatSQLite, FormatCSV, FormatXLSX:
		return f, nil
	case "shp":
		return FormatShapefile, nil
	case "json":
		return FormatGeoJSON, nil
	default:
		return "", eris.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatShapefile:
		return ".shp"
	case FormatSQLite:
		return ".db"
	default:
		return "." + string(f)
	}
}

// point returns the WGS 84 point of a label, or nil when either coordinate
// is missing.
func point(l timeslice.Label) *geom.Point {
	lon, okLon := l.Longitude.Get()
	lat, okLat := l.Latitude.Get()
	if !okLon || !okLat {
		return nil
	}
	return geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(SRID)
}
