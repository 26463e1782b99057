package main

import (
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/export"
	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/timeslice"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compute slices of a feature over a range of dates",
	Long:  "Computes one time slice per date from --from to --to in steps of --step, concurrently. Optionally writes the language × date matrix to a .csv or .xlsx file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		ds, err := loadDataset(ctx)
		if err != nil {
			return err
		}

		feat, _ := cmd.Flags().GetString("feature")
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		step, _ := cmd.Flags().GetInt("step")
		matrixPath, _ := cmd.Flags().GetString("matrix")
		if err := requireFeature(ds, feat); err != nil {
			return err
		}

		dates := timeslice.Dates(from, to, step)
		if len(dates) == 0 {
			return eris.Errorf("no dates between %d and %d with step %d", from, to, step)
		}

		slices, err := timeslice.Sweep(ctx, ds, feat, dates, cfg.Analysis.Concurrency,
			timeslice.WithMarker(cfg.Analysis.InheritedMarker))
		if err != nil {
			return err
		}

		if matrixPath != "" {
			if err := writeMatrix(matrixPath, ds.Registry.IDs(), slices); err != nil {
				return err
			}
			zap.L().Info("sweep: matrix written", zap.String("path", matrixPath), zap.Int("dates", len(dates)))
		}

		rows := summarizeSlices(slices)
		return renderCmd(cmd, rows, func(w *tabwriter.Writer) {
			formatSweep(w, rows)
		})
	},
}

func init() {
	sweepCmd.Flags().String("feature", "", "feature ID")
	sweepCmd.Flags().Int("from", -1000, "first year")
	sweepCmd.Flags().Int("to", 1000, "last year")
	sweepCmd.Flags().Int("step", 100, "years between slices")
	sweepCmd.Flags().String("matrix", "", "write the language × date matrix to this .csv or .xlsx file")
	rootCmd.AddCommand(sweepCmd)
}

// sweepRow summarises one slice.
type sweepRow struct {
	Date      int         `json:"date" yaml:"date"`
	Languages int         `json:"languages" yaml:"languages"`
	Mean      model.Value `json:"mean" yaml:"mean"`
	Inherited int         `json:"inherited" yaml:"inherited"`
	Values    []float64   `json:"values" yaml:"values"`
}

func summarizeSlices(slices []*timeslice.Slice) []sweepRow {
	out := make([]sweepRow, len(slices))
	for i, s := range slices {
		entries := s.Entries()
		vals := make([]model.Value, len(entries))
		r := sweepRow{Date: s.Date(), Languages: len(entries), Values: s.DistinctValues()}
		for j, e := range entries {
			vals[j] = model.Some(e.Value)
			if e.Inherited {
				r.Inherited++
			}
		}
		r.Mean = model.Mean(vals...).Round(3)
		out[i] = r
	}
	return out
}

func formatSweep(w *tabwriter.Writer, rows []sweepRow) {
	row(w, "DATE", "LANGUAGES", "MEAN", "INHERITED", "VALUES")
	row(w, "----", "---------", "----", "---------", "------")
	for _, r := range rows {
		vals := make([]string, len(r.Values))
		for i, v := range r.Values {
			vals[i] = model.Some(v).String()
		}
		row(w, model.FormatDate(r.Date), r.Languages, r.Mean, r.Inherited, strings.Join(vals, " "))
	}
}

func writeMatrix(path string, ids []string, slices []*timeslice.Slice) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "sweep: create matrix dir")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.MatrixXLSX(path, ids, slices)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "sweep: create matrix file")
		}
		defer f.Close()
		return export.MatrixCSV(f, ids, slices)
	default:
		return eris.Wrapf(export.ErrUnsupportedFormat, "matrix file %s", path)
	}
}
