package changelog

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/dataset"
	"github.com/sells-group/littel/internal/model"
)

const (
	ratePlaces     = 5
	symmetryPlaces = 2
	rateYears      = 1000
)

// Entry is one change in a Log.
type Entry struct {
	LanguageID string          `json:"language_id" yaml:"language_id"`
	Date       int             `json:"date" yaml:"date"`
	Value      float64         `json:"value" yaml:"value"`
	Increment  float64         `json:"increment" yaml:"increment"`
	Direction  model.Direction `json:"direction" yaml:"direction"`
}

// Log is the list of changes of one feature, for one language or pooled
// over all languages, together with the duration used for normalisation.
type Log struct {
	ds       *dataset.Dataset
	feature  string
	language string // empty for the pooled log
	entries  []Entry
	duration model.Value
}

// ForLanguage builds the log of lang's own changes of feat, normalised by
// the length of lang's attested range.
func ForLanguage(ds *dataset.Dataset, feat, lang string) *Log {
	l := &Log{
		ds:       ds,
		feature:  feat,
		language: lang,
		duration: ds.Lineage.Duration(lang),
	}
	for _, o := range ds.Store.Values(lang, feat) {
		if !o.IsChange() {
			continue
		}
		l.entries = append(l.entries, Entry{
			LanguageID: o.LanguageID,
			Date:       o.Date,
			Value:      o.Value,
			Increment:  o.Increment,
			Direction:  o.Direction,
		})
	}
	return l
}

// ForAll pools the changes of feat over every registered language,
// normalised by the summed duration of all languages.
//
// Each language's values of feat are taken in date order, preceded by its
// parent's terminal value of feat when there is one, and every non-zero
// difference between consecutive values becomes an entry.
func ForAll(ds *dataset.Dataset, feat string) *Log {
	l := &Log{
		ds:       ds,
		feature:  feat,
		duration: model.Some(float64(ds.Lineage.TotalDuration())),
	}
	for _, lang := range ds.Registry.IDs() {
		l.entries = append(l.entries, languageChanges(ds, feat, lang)...)
	}
	zap.L().Debug("changelog: pooled log",
		zap.String("feature", feat),
		zap.Int("changes", len(l.entries)),
	)
	return l
}

func languageChanges(ds *dataset.Dataset, feat, lang string) []Entry {
	prev := model.Missing()
	if parent := ds.Lineage.ParentID(lang); parent != "" {
		prev = ds.Store.LastValue(parent, feat)
	}

	var out []Entry
	for _, o := range ds.Store.Values(lang, feat) {
		if p, ok := prev.Get(); ok && o.Value != p {
			inc := o.Value - p
			out = append(out, Entry{
				LanguageID: lang,
				Date:       o.Date,
				Value:      o.Value,
				Increment:  inc,
				Direction:  model.DirectionOf(inc),
			})
		}
		prev = model.Some(o.Value)
	}
	return out
}

// Feature returns the feature ID.
func (l *Log) Feature() string { return l.feature }

// Language returns the language ID, or "" for the pooled log.
func (l *Log) Language() string { return l.language }

// Duration returns the normalisation duration in years.
func (l *Log) Duration() model.Value { return l.duration }

// Len returns the number of changes.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns the changes in log order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Increments returns the increments in log order.
func (l *Log) Increments() []float64 {
	out := make([]float64, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Increment
	}
	return out
}

// Directionality returns a copy of the log holding only changes in
// direction dir.
func (l *Log) Directionality(dir model.Direction) *Log {
	out := *l
	out.entries = nil
	for _, e := range l.entries {
		if dir.Matches(e.Increment) {
			out.entries = append(out.entries, e)
		}
	}
	return &out
}

// Amount returns the sum of absolute increments.
func (l *Log) Amount() float64 {
	var sum float64
	for _, e := range l.entries {
		sum += math.Abs(e.Increment)
	}
	return sum
}

// Rate returns the amount of change per 1000 years, rounded to 5 decimal
// places. It is missing when the duration is zero or unknown.
func (l *Log) Rate() model.Value {
	per := l.duration.Div(model.Some(rateYears))
	return model.Some(l.Amount()).Div(per).Round(ratePlaces)
}

// Symmetry returns |P-N| / (P+N) rounded to 2 decimal places, where P sums
// the positive increments and N the absolute negative ones. 0 means
// balanced, 1 means all changes go one way. It is missing for an empty log.
func (l *Log) Symmetry() model.Value {
	var pos, neg float64
	for _, e := range l.entries {
		if e.Increment > 0 {
			pos += e.Increment
		} else {
			neg -= e.Increment
		}
	}
	return model.Some(math.Abs(pos - neg)).Div(model.Some(pos + neg)).Round(symmetryPlaces)
}

// AverageDate returns the mean date of the changes; missing for an empty log.
func (l *Log) AverageDate() model.Value {
	vals := make([]model.Value, len(l.entries))
	for i, e := range l.entries {
		vals[i] = model.Some(float64(e.Date))
	}
	return model.Mean(vals...)
}

// Correlations returns the proximity of other changes to the changes of the
// log's feature in direction dir. For a single language this is its
// TimeLineage view; the pooled log merges every language, keeping the
// smallest distance per kind of change.
func (l *Log) Correlations(dir model.Direction) Correlations {
	if l.language != "" {
		return NewTimeLineage(l.ds, l.language).ChangeCorrelations(l.feature, dir)
	}
	out := make(Correlations)
	for _, lang := range l.ds.Store.Languages(l.feature) {
		out.merge(NewTimeLineage(l.ds, lang).ChangeCorrelations(l.feature, dir))
	}
	return out
}

// Summary is the numeric digest of a Log.
type Summary struct {
	Feature     string      `json:"feature" yaml:"feature"`
	Language    string      `json:"language,omitempty" yaml:"language,omitempty"`
	Changes     int         `json:"changes" yaml:"changes"`
	Amount      float64     `json:"amount" yaml:"amount"`
	Duration    model.Value `json:"duration" yaml:"duration"`
	Rate        model.Value `json:"rate" yaml:"rate"`
	Symmetry    model.Value `json:"symmetry" yaml:"symmetry"`
	AverageDate model.Value `json:"average_date" yaml:"average_date"`
	Increases   int         `json:"increases" yaml:"increases"`
	Decreases   int         `json:"decreases" yaml:"decreases"`
	Languages   []string    `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// Summarize computes the digest of l.
func (l *Log) Summarize() Summary {
	s := Summary{
		Feature:     l.feature,
		Language:    l.language,
		Changes:     l.Len(),
		Amount:      l.Amount(),
		Duration:    l.duration,
		Rate:        l.Rate(),
		Symmetry:    l.Symmetry(),
		AverageDate: l.AverageDate(),
	}
	seen := make(map[string]bool)
	for _, e := range l.entries {
		if model.Increase.Matches(e.Increment) {
			s.Increases++
		} else {
			s.Decreases++
		}
		if !seen[e.LanguageID] {
			seen[e.LanguageID] = true
			s.Languages = append(s.Languages, e.LanguageID)
		}
	}
	sort.Strings(s.Languages)
	return s
}
