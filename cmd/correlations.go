package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/littel/internal/changelog"
)

var correlationsCmd = &cobra.Command{
	Use:   "correlations",
	Short: "List changes that precede changes of a feature most closely",
	Long:  "For every change of --feature in --direction, finds each kind of change at or before it in the language's ancestor-inclusive history and reports the smallest distance in years per (feature, direction).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		feat, _ := cmd.Flags().GetString("feature")
		langArg, _ := cmd.Flags().GetString("language")
		dirArg, _ := cmd.Flags().GetString("direction")
		limit, _ := cmd.Flags().GetInt("limit")
		if err := requireFeature(ds, feat); err != nil {
			return err
		}
		dir, err := parseDirection(dirArg)
		if err != nil {
			return err
		}

		l, err := buildLog(ds, feat, langArg)
		if err != nil {
			return err
		}
		list := l.Correlations(dir).Sorted()
		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}
		return renderCmd(cmd, list, func(w *tabwriter.Writer) {
			formatCorrelations(w, list)
		})
	},
}

func init() {
	correlationsCmd.Flags().String("feature", "", "feature ID")
	correlationsCmd.Flags().String("language", "", "language ID or name (default: all languages)")
	correlationsCmd.Flags().String("direction", "increase", "direction of the changes under study (increase, decrease)")
	correlationsCmd.Flags().Int("limit", 0, "show at most this many entries (0 = all)")
	rootCmd.AddCommand(correlationsCmd)
}

func formatCorrelations(w *tabwriter.Writer, list []changelog.Correlation) {
	row(w, "FEATURE", "DIRECTION", "DISTANCE")
	row(w, "-------", "---------", "--------")
	for _, c := range list {
		row(w, c.Feature, c.Direction, c.Distance)
	}
}
