package ingest

import (
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/model"
)

// Defaults are the fallback attestation bounds for languages with neither a
// date range nor a floruit.
type Defaults struct {
	Earliest int
	Latest   int
}

// DefaultBounds returns the standard -1000..1000 fallback range.
func DefaultBounds() Defaults {
	return Defaults{Earliest: -1000, Latest: 1000}
}

// Normalized is the cleaned form of Tables, ready to build a dataset from.
type Normalized struct {
	Languages    []model.Language
	Features     []model.Feature
	Codes        []model.Code
	Observations []model.Observation // Increment and Direction not yet derived
}

// Clean normalizes raw tables:
//   - language IDs are trimmed and duplicates dropped (first row wins)
//   - Earliest and Latest fall back to Floruit, then to the defaults
//   - Floruit falls back to the midpoint of Earliest and Latest
//   - observation dates fall back to the language's floruit
//   - observations with a missing value or an unknown language are dropped
func Clean(t *Tables, d Defaults) *Normalized {
	log := zap.L().With(zap.String("component", "ingest.clean"))
	n := &Normalized{
		Features: t.Features,
		Codes:    t.Codes,
	}

	floruit := make(map[string]int, len(t.Languages))
	for _, row := range t.Languages {
		if row.ID == "" {
			continue
		}
		if _, dup := floruit[row.ID]; dup {
			log.Warn("dropping duplicate language", zap.String("language", row.ID))
			continue
		}

		earliest := year(row.Earliest.OrElse(row.Floruit).Or(float64(d.Earliest)))
		latest := year(row.Latest.OrElse(row.Floruit).Or(float64(d.Latest)))
		fl := year(row.Floruit.Or(float64(earliest+latest) / 2))

		floruit[row.ID] = fl
		n.Languages = append(n.Languages, model.Language{
			ID:        row.ID,
			Name:      row.Name,
			ParentID:  row.Parent,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Earliest:  earliest,
			Latest:    latest,
			Floruit:   fl,
		})
	}

	var unknown, empty int
	for _, row := range t.Values {
		fl, ok := floruit[row.LanguageID]
		if !ok {
			unknown++
			continue
		}
		v, ok := row.Value.Get()
		if !ok {
			empty++
			continue
		}
		date := fl
		if dv, ok := row.Date.Get(); ok {
			date = year(dv)
		}
		n.Observations = append(n.Observations, model.Observation{
			LanguageID: row.LanguageID,
			FeatureID:  row.FeatureID,
			Date:       date,
			Value:      v,
		})
	}
	if unknown > 0 || empty > 0 {
		log.Info("dropped value rows",
			zap.Int("unknown_language", unknown),
			zap.Int("missing_value", empty),
		)
	}

	return n
}
