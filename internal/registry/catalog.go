package registry

import (
	"sort"

	"github.com/sells-group/littel/internal/model"
)

type codeKey struct {
	feature string
	value   float64
}

// Catalog indexes feature descriptions and the code legend. It is display
// reference data only; analysis never depends on it.
type Catalog struct {
	features []model.Feature
	byID     map[string]*model.Feature
	codes    map[codeKey]string
	byFeat   map[string][]model.Code
}

// NewCatalog creates a Catalog with indexed lookups. Later duplicates of a
// feature ID or (feature, value) code overwrite earlier ones.
func NewCatalog(features []model.Feature, codes []model.Code) *Catalog {
	c := &Catalog{
		features: make([]model.Feature, len(features)),
		byID:     make(map[string]*model.Feature, len(features)),
		codes:    make(map[codeKey]string, len(codes)),
		byFeat:   make(map[string][]model.Code),
	}
	copy(c.features, features)
	for i := range c.features {
		f := &c.features[i]
		c.byID[f.ID] = f
	}
	for _, code := range codes {
		c.codes[codeKey{code.FeatureID, code.Value}] = code.Description
		c.byFeat[code.FeatureID] = append(c.byFeat[code.FeatureID], code)
	}
	for _, list := range c.byFeat {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Value < list[j].Value })
	}
	return c
}

// Features returns all features in load order.
func (c *Catalog) Features() []model.Feature {
	out := make([]model.Feature, len(c.features))
	copy(out, c.features)
	return out
}

// HasFeature reports whether feat is described in the catalog.
func (c *Catalog) HasFeature(feat string) bool {
	_, ok := c.byID[feat]
	return ok
}

// FeatureDescription returns the description of feat, or "" when unknown.
func (c *Catalog) FeatureDescription(feat string) string {
	if f, ok := c.byID[feat]; ok {
		return f.Description
	}
	return ""
}

// CodeDescription returns the legend entry for value of feat, or "".
func (c *Catalog) CodeDescription(feat string, value float64) string {
	return c.codes[codeKey{feat, value}]
}

// Codes returns the legend of feat ordered by value.
func (c *Catalog) Codes(feat string) []model.Code {
	list := c.byFeat[feat]
	out := make([]model.Code, len(list))
	copy(out, list)
	return out
}
