package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/registry"
	"github.com/sells-group/littel/internal/timeslice"
)

// GeoJSON writes s as a FeatureCollection of points. Languages without
// coordinates are skipped. cat may be nil, in which case code descriptions
// are left empty.
func GeoJSON(w io.Writer, s *timeslice.Slice, cat *registry.Catalog) error {
	fc := &geojson.FeatureCollection{}

	var skipped int
	for _, l := range s.Labels(model.Missing()) {
		p := point(l)
		if p == nil {
			skipped++
			continue
		}
		var code string
		if cat != nil {
			code = cat.CodeDescription(s.Feature(), l.Value)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       l.LanguageID,
			Geometry: p,
			Properties: map[string]any{
				"id":        l.LanguageID,
				"name":      l.Name,
				"feature":   s.Feature(),
				"date":      s.Date(),
				"value":     l.Value,
				"code":      code,
				"inherited": l.Inherited,
			},
		})
	}
	if skipped > 0 {
		zap.L().Debug("export: languages without coordinates skipped",
			zap.String("feature", s.Feature()),
			zap.Int("date", s.Date()),
			zap.Int("skipped", skipped),
		)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "geojson: marshal")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "geojson: write")
	}
	return nil
}
