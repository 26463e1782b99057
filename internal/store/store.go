// Package store holds the in-memory observation table with the derived
// increment and direction columns.
package store

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/registry"
)

type groupKey struct {
	language string
	feature  string
}

type span struct {
	start, end int // half-open range into Store.obs
}

// Query selects observations. Empty fields match everything.
type Query struct {
	Language string
	Feature  string
	Date     *int
}

// Store is the immutable observation table, sorted by (language, feature,
// date). Every accessor returns a copy.
type Store struct {
	obs      []model.Observation
	groups   map[groupKey]span
	byLang   map[string][]groupKey
	byFeat   map[string][]string
	features []string
}

// Build sorts observations, drops those whose language is not registered,
// and derives Increment and Direction for each row.
//
// Within a (language, feature) group ordered by date, the increment of a row
// is its value minus the previous row's value. The first row of a group
// instead takes the parent language's last value for the feature dated at or
// before the row, minus the row's value; with no such parent value the
// increment is 0. Direction is Increase for a positive increment.
func Build(reg *registry.Registry, obs []model.Observation) *Store {
	s := &Store{
		obs:    make([]model.Observation, 0, len(obs)),
		groups: make(map[groupKey]span),
		byLang: make(map[string][]groupKey),
		byFeat: make(map[string][]string),
	}

	var dropped int
	for _, o := range obs {
		if _, ok := reg.Index(o.LanguageID); !ok {
			dropped++
			continue
		}
		s.obs = append(s.obs, o)
	}
	if dropped > 0 {
		zap.L().Warn("store: dropped observations of unregistered languages", zap.Int("count", dropped))
	}

	sort.SliceStable(s.obs, func(i, j int) bool {
		a, b := s.obs[i], s.obs[j]
		if a.LanguageID != b.LanguageID {
			return a.LanguageID < b.LanguageID
		}
		if a.FeatureID != b.FeatureID {
			return a.FeatureID < b.FeatureID
		}
		return a.Date < b.Date
	})

	s.index()
	s.deriveIncrements(reg)
	return s
}

func (s *Store) index() {
	for i := 0; i < len(s.obs); {
		k := groupKey{s.obs[i].LanguageID, s.obs[i].FeatureID}
		j := i + 1
		for j < len(s.obs) && s.obs[j].LanguageID == k.language && s.obs[j].FeatureID == k.feature {
			j++
		}
		s.groups[k] = span{i, j}
		s.byLang[k.language] = append(s.byLang[k.language], k)
		s.byFeat[k.feature] = append(s.byFeat[k.feature], k.language)
		i = j
	}
	for f, langs := range s.byFeat {
		sort.Strings(langs)
		s.features = append(s.features, f)
	}
	sort.Strings(s.features)
}

func (s *Store) deriveIncrements(reg *registry.Registry) {
	for k, g := range s.groups {
		first := &s.obs[g.start]
		first.Increment = 0
		if i, ok := reg.Index(k.language); ok {
			if p := reg.ParentIndex(i); p != registry.NoParent {
				parentVal := s.LastValueAsOf(reg.At(p).ID, k.feature, first.Date)
				first.Increment = parentVal.Sub(model.Some(first.Value)).Or(0)
			}
		}
		first.Direction = model.DirectionOf(first.Increment)

		for i := g.start + 1; i < g.end; i++ {
			o := &s.obs[i]
			o.Increment = o.Value - s.obs[i-1].Value
			o.Direction = model.DirectionOf(o.Increment)
		}
	}
}

// Len returns the number of observations.
func (s *Store) Len() int {
	return len(s.obs)
}

// Observations returns every observation in (language, feature, date) order.
func (s *Store) Observations() []model.Observation {
	out := make([]model.Observation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Values returns the observations of one (language, feature) group in date order.
func (s *Store) Values(lang, feat string) []model.Observation {
	g, ok := s.groups[groupKey{lang, feat}]
	if !ok {
		return nil
	}
	out := make([]model.Observation, g.end-g.start)
	copy(out, s.obs[g.start:g.end])
	return out
}

// Select returns the observations matching q in store order.
func (s *Store) Select(q Query) []model.Observation {
	var candidates []model.Observation
	switch {
	case q.Language != "" && q.Feature != "":
		g, ok := s.groups[groupKey{q.Language, q.Feature}]
		if !ok {
			return nil
		}
		candidates = s.obs[g.start:g.end]
	case q.Language != "":
		for _, k := range s.byLang[q.Language] {
			g := s.groups[k]
			candidates = append(candidates, s.obs[g.start:g.end]...)
		}
	default:
		candidates = s.obs
	}

	var out []model.Observation
	for _, o := range candidates {
		if q.Feature != "" && o.FeatureID != q.Feature {
			continue
		}
		if q.Date != nil && o.Date != *q.Date {
			continue
		}
		out = append(out, o)
	}
	return out
}

// LastValue returns the chronologically last value of feat for lang;
// missing when the language has no such observation.
func (s *Store) LastValue(lang, feat string) model.Value {
	g, ok := s.groups[groupKey{lang, feat}]
	if !ok {
		return model.Missing()
	}
	return model.Some(s.obs[g.end-1].Value)
}

// LastValueAsOf returns the value of the last observation of feat for lang
// dated at or before date; missing when there is none.
func (s *Store) LastValueAsOf(lang, feat string, date int) model.Value {
	g, ok := s.groups[groupKey{lang, feat}]
	if !ok {
		return model.Missing()
	}
	rows := s.obs[g.start:g.end]
	n := sort.Search(len(rows), func(i int) bool { return rows[i].Date > date })
	if n == 0 {
		return model.Missing()
	}
	return model.Some(rows[n-1].Value)
}

// Languages returns the IDs of languages with at least one observation of
// feat, in ascending order.
func (s *Store) Languages(feat string) []string {
	langs := s.byFeat[feat]
	out := make([]string, len(langs))
	copy(out, langs)
	return out
}

// Features returns every observed feature ID in ascending order.
func (s *Store) Features() []string {
	out := make([]string, len(s.features))
	copy(out, s.features)
	return out
}

// Changes returns the observations with a non-zero increment.
func (s *Store) Changes() []model.Observation {
	var out []model.Observation
	for _, o := range s.obs {
		if o.IsChange() {
			out = append(out, o)
		}
	}
	return out
}

// ChangesFor returns the changes of a single language, grouped by feature
// and in date order within each feature.
func (s *Store) ChangesFor(lang string) []model.Observation {
	var out []model.Observation
	for _, k := range s.byLang[lang] {
		g := s.groups[k]
		for _, o := range s.obs[g.start:g.end] {
			if o.IsChange() {
				out = append(out, o)
			}
		}
	}
	return out
}
