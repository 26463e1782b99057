package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/model"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarise the loaded dataset",
	Long:  "Lists the observed features with their descriptions, code legends and observation counts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		feat, _ := cmd.Flags().GetString("feature")
		if feat != "" {
			if err := requireFeature(ds, feat); err != nil {
				return err
			}
		}

		d := describeDataset(ds, feat)
		return renderCmd(cmd, d, func(w *tabwriter.Writer) {
			formatDescription(w, d)
		})
	},
}

func init() {
	describeCmd.Flags().String("feature", "", "only describe this feature")
	rootCmd.AddCommand(describeCmd)
}

type description struct {
	Languages    int                  `json:"languages" yaml:"languages"`
	Observations int                  `json:"observations" yaml:"observations"`
	Changes      int                  `json:"changes" yaml:"changes"`
	TotalYears   int                  `json:"total_years" yaml:"total_years"`
	Features     []featureDescription `json:"features" yaml:"features"`
}

type featureDescription struct {
	ID           string       `json:"id" yaml:"id"`
	Description  string       `json:"description" yaml:"description"`
	Languages    int          `json:"languages" yaml:"languages"`
	Observations int          `json:"observations" yaml:"observations"`
	Codes        []model.Code `json:"codes,omitempty" yaml:"codes,omitempty"`
}

func describeDataset(ds *dataset.Dataset, only string) description {
	d := description{
		Languages:    ds.Registry.Len(),
		Observations: ds.Store.Len(),
		Changes:      len(ds.Store.Changes()),
		TotalYears:   ds.Lineage.TotalDuration(),
	}
	counts := make(map[string]int)
	for _, o := range ds.Store.Observations() {
		counts[o.FeatureID]++
	}
	for _, f := range ds.Store.Features() {
		if only != "" && f != only {
			continue
		}
		d.Features = append(d.Features, featureDescription{
			ID:           f,
			Description:  ds.Catalog.FeatureDescription(f),
			Languages:    len(ds.Store.Languages(f)),
			Observations: counts[f],
			Codes:        ds.Catalog.Codes(f),
		})
	}
	return d
}

func formatDescription(w *tabwriter.Writer, d description) {
	row(w, "Languages:", d.Languages)
	row(w, "Observations:", d.Observations)
	row(w, "Changes:", d.Changes)
	row(w, "Total years:", d.TotalYears)
	row(w)
	row(w, "FEATURE", "LANGUAGES", "OBSERVATIONS", "DESCRIPTION")
	row(w, "-------", "---------", "------------", "-----------")
	for _, f := range d.Features {
		row(w, f.ID, f.Languages, f.Observations, f.Description)
		for _, c := range f.Codes {
			row(w, "", "", model.Some(c.Value), c.Description)
		}
	}
}
