package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/export"
	"github.com/sells-group/littel/internal/timeslice"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a time slice for mapping tools",
	Long:  "Computes the slice of --feature at --date and writes it as GeoJSON, an ESRI shapefile, or a snapshot in a SQLite database.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		ds, err := loadDataset(ctx)
		if err != nil {
			return err
		}

		feat, _ := cmd.Flags().GetString("feature")
		date, _ := cmd.Flags().GetInt("date")
		formatName, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		if err := requireFeature(ds, feat); err != nil {
			return err
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if out == "" {
			out = filepath.Join(cfg.Export.Dir, defaultExportName(feat, date, format))
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return eris.Wrap(err, "export: create output dir")
		}

		s := timeslice.New(ds, feat, date, timeslice.WithMarker(cfg.Analysis.InheritedMarker))
		summary, err := writeExport(cmd, ds, s, format, out)
		if err != nil {
			return err
		}

		zap.L().Info("export: written",
			zap.String("format", string(format)),
			zap.String("path", out),
			zap.Int("languages", s.Len()),
		)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("feature", "", "feature ID")
	exportCmd.Flags().Int("date", 0, "year (negative for BCE)")
	exportCmd.Flags().String("format", string(export.FormatGeoJSON), "geojson, shapefile or sqlite")
	exportCmd.Flags().String("out", "", "output path (default: <export.dir>/<feature>_<date>.<ext>)")
	rootCmd.AddCommand(exportCmd)
}

func defaultExportName(feat string, date int, f export.Format) string {
	if f == export.FormatSQLite {
		return "snapshots" + f.Extension()
	}
	return fmt.Sprintf("%s_%d%s", feat, date, f.Extension())
}

func writeExport(cmd *cobra.Command, ds *dataset.Dataset, s *timeslice.Slice, format export.Format, out string) (string, error) {
	switch format {
	case export.FormatGeoJSON:
		f, err := os.Create(out)
		if err != nil {
			return "", eris.Wrap(err, "export: create file")
		}
		defer f.Close()
		if err := export.GeoJSON(f, s, ds.Catalog); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %d languages", out, s.Len()), nil

	case export.FormatShapefile:
		n, err := export.Shapefile(out, s)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %d points", out, n), nil

	case export.FormatSQLite:
		ctx := cmd.Context()
		w, err := export.NewSQLiteWriter(out)
		if err != nil {
			return "", err
		}
		defer w.Close() //nolint:errcheck
		if err := w.Migrate(ctx); err != nil {
			return "", err
		}
		id, err := w.WriteSlice(ctx, s, ds.Catalog)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: snapshot %s", out, id), nil

	default:
		return "", eris.Wrapf(export.ErrUnsupportedFormat, "%s is a matrix format; use sweep --matrix", format)
	}
}
