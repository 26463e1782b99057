package main

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/littel/internal/config"
	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/ingest"
	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/registry"
)

// sourceFromConfig maps the data and analysis sections onto a dataset source.
func sourceFromConfig(c *config.Config) dataset.Source {
	delim, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return dataset.Source{
		SQLite:   c.Data.SQLite,
		Workbook: c.Data.Workbook,
		Dir:      c.Data.Dir,
		Files: ingest.DirOptions{
			Languages: c.Data.Languages,
			Features:  c.Data.Features,
			Codes:     c.Data.Codes,
			Values:    c.Data.Values,
			CSV: ingest.CSVOptions{
				Delimiter: delim,
				Encoding:  c.Data.Encoding,
			},
		},
		Defaults: ingest.Defaults{
			Earliest: c.Analysis.DefaultEarliest,
			Latest:   c.Analysis.DefaultLatest,
		},
	}
}

// loadDataset reads the configured tables.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := dataset.Load(ctx, sourceFromConfig(cfg), dataset.Options{
		MaxLineageDepth: cfg.Analysis.MaxLineageDepth,
	})
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}
	return ds, nil
}

// resolveLanguage accepts a language ID or an unambiguous name.
func resolveLanguage(ds *dataset.Dataset, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if _, ok := ds.Registry.Get(arg); ok {
		return arg, nil
	}
	ids := ds.Registry.FindByName(arg)
	switch len(ids) {
	case 0:
		return "", eris.Wrapf(registry.ErrUnknownLanguage, "%q", arg)
	case 1:
		return ids[0], nil
	default:
		return "", eris.Errorf("language %q is ambiguous: %s", arg, strings.Join(ids, ", "))
	}
}

// parseDirection accepts increase/decrease, up/down, +/- or 1/0.
func parseDirection(s string) (model.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increase", "up", "+", "1":
		return model.Increase, nil
	case "decrease", "down", "-", "0":
		return model.Decrease, nil
	default:
		return 0, eris.Errorf("unknown direction %q", s)
	}
}

// requireFeature fails for features with no observations.
func requireFeature(ds *dataset.Dataset, feat string) error {
	if feat == "" {
		return eris.New("--feature is required")
	}
	for _, f := range ds.Store.Features() {
		if f == feat {
			return nil
		}
	}
	return eris.Errorf("feature %q has no observations", feat)
}
