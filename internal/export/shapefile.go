package export

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/timeslice"
)

// Shapefile attribute columns, in order.
var shapeFields = []shp.Field{
	shp.StringField("ID", 16),
	shp.StringField("NAME", 80),
	shp.FloatField("VALUE", 12, 4),
	shp.NumberField("INHERIT", 1),
}

// Shapefile writes s as a POINT shapefile at path (plus the .shx and .dbf
// companions). Languages without coordinates are skipped. It returns the
// number of records written.
func Shapefile(path string, s *timeslice.Slice) (int, error) {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, eris.Wrapf(err, "shapefile: create %s", path)
	}
	defer w.Close()

	if err := w.SetFields(shapeFields); err != nil {
		return 0, eris.Wrap(err, "shapefile: set fields")
	}

	var n int
	for _, l := range s.Labels(model.Missing()) {
		p := point(l)
		if p == nil {
			continue
		}
		row := int(w.Write(&shp.Point{X: p.X(), Y: p.Y()}))

		inherit := 0
		if l.Inherited {
			inherit = 1
		}
		for i, v := range []any{l.LanguageID, l.Name, l.Value, inherit} {
			if err := w.WriteAttribute(row, i, v); err != nil {
				return n, eris.Wrapf(err, "shapefile: write attribute %d of %s", i, l.LanguageID)
			}
		}
		n++
	}
	return n, nil
}
