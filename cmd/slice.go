package main

import (
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/timeslice"
)

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Estimate a feature for every language at one date",
	Long:  "Estimates the value of a feature at a date for every language whose range contains it, interpolating between neighbouring observations and falling back to the parent's value.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		feat, _ := cmd.Flags().GetString("feature")
		date, _ := cmd.Flags().GetInt("date")
		subset, err := subsetFlag(cmd)
		if err != nil {
			return err
		}
		if err := requireFeature(ds, feat); err != nil {
			return err
		}

		s := timeslice.New(ds, feat, date, timeslice.WithMarker(cfg.Analysis.InheritedMarker))
		labels := s.Labels(subset)
		return renderCmd(cmd, labels, func(w *tabwriter.Writer) {
			formatLabels(w, s.Feature(), s.Date(), labels)
		})
	},
}

func init() {
	sliceCmd.Flags().String("feature", "", "feature ID")
	sliceCmd.Flags().Int("date", 0, "year (negative for BCE)")
	sliceCmd.Flags().String("subset", "", "only list languages with this value")
	rootCmd.AddCommand(sliceCmd)
}

func subsetFlag(cmd *cobra.Command) (model.Value, error) {
	raw, _ := cmd.Flags().GetString("subset")
	if raw == "" {
		return model.Missing(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.Missing(), err
	}
	return model.Some(v), nil
}

func formatLabels(w *tabwriter.Writer, feat string, date int, labels []timeslice.Label) {
	row(w, "# "+feat, model.FormatDate(date))
	row(w, "ID", "NAME", "VALUE", "INHERITED", "LAT", "LON")
	row(w, "--", "----", "-----", "---------", "---", "---")
	for _, l := range labels {
		row(w, l.LanguageID, l.Name, l.Value, l.Inherited, l.Latitude, l.Longitude)
	}
}
