package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/model"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage <language>",
	Short: "Show a language and its ancestors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		lang, err := resolveLanguage(ds, args[0])
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetInt("date")
		withDate := cmd.Flags().Changed("date")

		steps := lineageSteps(ds, lang, date, withDate)
		return renderCmd(cmd, steps, func(w *tabwriter.Writer) {
			formatLineage(w, steps, withDate)
		})
	},
}

func init() {
	lineageCmd.Flags().Int("date", 0, "also report whether each language is attested at this year")
	rootCmd.AddCommand(lineageCmd)
}

type lineageStep struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Earliest  int    `json:"earliest" yaml:"earliest"`
	Latest    int    `json:"latest" yaml:"latest"`
	RangeFrom int    `json:"range_from" yaml:"range_from"`
	RangeTo   int    `json:"range_to" yaml:"range_to"`
	Duration  int    `json:"duration" yaml:"duration"`
	Attested  string `json:"attested,omitempty" yaml:"attested,omitempty"`
	Changes   int    `json:"changes" yaml:"changes"`
}

func lineageSteps(ds *dataset.Dataset, lang string, date int, withDate bool) []lineageStep {
	var out []lineageStep
	for _, id := range ds.Lineage.Lineage(lang) {
		l, _ := ds.Registry.Get(id)
		span, _ := ds.Lineage.AttestedRange(id)
		s := lineageStep{
			ID:        id,
			Name:      l.Name,
			Earliest:  l.Earliest,
			Latest:    l.Latest,
			RangeFrom: span.Earliest,
			RangeTo:   span.Latest,
			Duration:  span.Duration(),
			Changes:   len(ds.Store.ChangesFor(id)),
		}
		if withDate {
			s.Attested = ds.Lineage.IsAttested(id, date).String()
		}
		out = append(out, s)
	}
	return out
}

func formatLineage(w *tabwriter.Writer, steps []lineageStep, withDate bool) {
	header := []any{"DEPTH", "ID", "NAME", "ATTESTED RANGE", "INTERPOLATION RANGE", "CHANGES"}
	if withDate {
		header = append(header, "AT DATE")
	}
	row(w, header...)
	for i, s := range steps {
		cells := []any{
			i,
			s.ID,
			s.Name,
			model.FormatDate(s.Earliest) + " to " + model.FormatDate(s.Latest),
			"(" + model.FormatDate(s.RangeFrom) + ", " + model.FormatDate(s.RangeTo) + "]",
			s.Changes,
		}
		if withDate {
			cells = append(cells, s.Attested)
		}
		row(w, cells...)
	}
}
