package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/littel/internal/changelog"
	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/model"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Summarise the changes of a feature",
	Long:  "Reports the amount, rate per 1000 years and directional symmetry of a feature's changes, for one language (--language) or pooled over all languages.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		feat, _ := cmd.Flags().GetString("feature")
		langArg, _ := cmd.Flags().GetString("language")
		dirArg, _ := cmd.Flags().GetString("direction")
		showEntries, _ := cmd.Flags().GetBool("entries")
		if err := requireFeature(ds, feat); err != nil {
			return err
		}

		l, err := buildLog(ds, feat, langArg)
		if err != nil {
			return err
		}
		if dirArg != "" {
			dir, err := parseDirection(dirArg)
			if err != nil {
				return err
			}
			l = l.Directionality(dir)
		}

		report := changelogReport{Summary: l.Summarize()}
		if showEntries {
			report.Entries = l.Entries()
		}
		return renderCmd(cmd, report, func(w *tabwriter.Writer) {
			formatChangelog(w, report)
		})
	},
}

func init() {
	changelogCmd.Flags().String("feature", "", "feature ID")
	changelogCmd.Flags().String("language", "", "language ID or name (default: all languages)")
	changelogCmd.Flags().String("direction", "", "only count changes in this direction (increase, decrease)")
	changelogCmd.Flags().Bool("entries", false, "list the individual changes")
	rootCmd.AddCommand(changelogCmd)
}

func buildLog(ds *dataset.Dataset, feat, langArg string) (*changelog.Log, error) {
	if langArg == "" {
		return changelog.ForAll(ds, feat), nil
	}
	lang, err := resolveLanguage(ds, langArg)
	if err != nil {
		return nil, err
	}
	return changelog.ForLanguage(ds, feat, lang), nil
}

type changelogReport struct {
	changelog.Summary `yaml:",inline"`
	Entries           []changelog.Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

func formatChangelog(w *tabwriter.Writer, r changelogReport) {
	scope := r.Language
	if scope == "" {
		scope = "all languages"
	}
	row(w, "Feature:", r.Feature)
	row(w, "Scope:", scope)
	row(w, "Changes:", r.Changes)
	row(w, "  Increases:", r.Increases)
	row(w, "  Decreases:", r.Decreases)
	row(w, "Amount:", model.Some(r.Amount))
	row(w, "Duration:", r.Duration)
	row(w, "Rate per 1000y:", r.Rate)
	row(w, "Symmetry:", r.Symmetry)
	if d, ok := r.AverageDate.Get(); ok {
		row(w, "Average date:", model.FormatDate(int(d)))
	}
	if len(r.Entries) == 0 {
		return
	}
	row(w)
	row(w, "LANGUAGE", "DATE", "VALUE", "INCREMENT", "DIRECTION")
	for _, e := range r.Entries {
		row(w, e.LanguageID, model.FormatDate(e.Date), e.Value, e.Increment, e.Direction)
	}
}
