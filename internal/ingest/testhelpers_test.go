package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var fixtureTables = map[string][][]string{
	TableLanguages: {
		{"ID", "Name", "Parent", "Latitude", "Longitude", "Earliest", "Latest", "Floruit"},
		{"lati1261", "Latin", "", "41.9", "12.5", "-500", "500", ""},
		{"ital1282", "Italian", "lati1261", "43.0", "12.0", "1200", "", ""},
		{" lati1261 ", "Latin (dup)", "", "", "", "", "", ""},
		{"undated", "Undated", "", "", "", "", "", ""},
	},
	TableFeatures: {
		{"Feature_ID", "Description"},
		{"Pos_Coord", "Position of coordinator"},
	},
	TableCodes: {
		{"Feature_ID", "Value", "Description"},
		{"Pos_Coord", "0", "initial"},
		{"Pos_Coord", "1", "medial"},
	},
	TableValues: {
		{"Language_ID", "Feature_ID", "Date", "Value"},
		{"lati1261", "Pos_Coord", "-500", "0"},
		{"lati1261", "Pos_Coord", "400", "1"},
		{"ital1282", "Pos_Coord", "", "1"},
		{"ital1282", "Pos_Coord", "1500", ""},
		{"ghost", "Pos_Coord", "100", "1"},
	},
}

func csvText(rows [][]string) string {
	var out string
	for _, row := range rows {
		for i, c := range row {
			if i > 0 {
				out += ","
			}
			out += c
		}
		out += "\n"
	}
	return out
}

func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for table, rows := range fixtureTables {
		path := filepath.Join(dir, table+".csv")
		require.NoError(t, os.WriteFile(path, []byte(csvText(rows)), 0o644))
	}
	return dir
}
