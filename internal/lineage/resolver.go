// Package lineage answers parent, ancestor and attestation-range questions
// over a language registry.
package lineage

import (
	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/registry"
)

// Timespan is the range in which a language is considered to exist for
// interpolation. The lower bound is exclusive and the upper bound inclusive.
type Timespan struct {
	Earliest int `json:"earliest" yaml:"earliest"`
	Latest   int `json:"latest" yaml:"latest"`
}

// Contains reports whether Earliest < date <= Latest.
func (s Timespan) Contains(date int) bool {
	return s.Earliest < date && date <= s.Latest
}

// Duration returns |Latest - Earliest|.
func (s Timespan) Duration() int {
	d := s.Latest - s.Earliest
	if d < 0 {
		return -d
	}
	return d
}

// Attestation is the tri-state answer of IsAttested.
type Attestation int

const (
	Unknown Attestation = iota
	Attested
	Unattested
)

func (a Attestation) String() string {
	switch a {
	case Attested:
		return "attested"
	case Unattested:
		return "unattested"
	default:
		return "unknown"
	}
}

// Resolver walks parent pointers of a registry.
type Resolver struct {
	reg *registry.Registry
}

// New creates a Resolver over reg.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Registry returns the underlying registry.
func (r *Resolver) Registry() *registry.Registry {
	return r.reg
}

// Parent returns the registered parent of id. It reports false when id is
// unknown, is a root, or names a parent that is not registered.
func (r *Resolver) Parent(id string) (model.Language, bool) {
	i, ok := r.reg.Index(id)
	if !ok {
		return model.Language{}, false
	}
	p := r.reg.ParentIndex(i)
	if p == registry.NoParent {
		return model.Language{}, false
	}
	return r.reg.At(p), true
}

// ParentID returns the ID of the registered parent of id, or "".
func (r *Resolver) ParentID(id string) string {
	p, ok := r.Parent(id)
	if !ok {
		return ""
	}
	return p.ID
}

// Ancestors returns the ancestor chain of id, nearest first, excluding id
// itself. Unknown languages have no ancestors.
func (r *Resolver) Ancestors(id string) []model.Language {
	i, ok := r.reg.Index(id)
	if !ok {
		return nil
	}
	var out []model.Language
	seen := map[int]bool{i: true}
	for p := r.reg.ParentIndex(i); p != registry.NoParent && !seen[p]; p = r.reg.ParentIndex(p) {
		seen[p] = true
		out = append(out, r.reg.At(p))
	}
	return out
}

// Lineage returns id followed by the IDs of its ancestors, nearest first.
// Unknown languages yield nil.
func (r *Resolver) Lineage(id string) []string {
	if _, ok := r.reg.Index(id); !ok {
		return nil
	}
	anc := r.Ancestors(id)
	out := make([]string, 0, len(anc)+1)
	out = append(out, id)
	for _, a := range anc {
		out = append(out, a.ID)
	}
	return out
}

// AttestedRange returns the interpolation timespan of id. When id has a
// registered parent, the parent's latest date replaces the language's own
// earliest date, so a daughter is in range from the moment its parent stops
// being attested. The upper bound is always the language's own latest date.
func (r *Resolver) AttestedRange(id string) (Timespan, bool) {
	l, ok := r.reg.Get(id)
	if !ok {
		return Timespan{}, false
	}
	span := Timespan{Earliest: l.Earliest, Latest: l.Latest}
	if p, ok := r.Parent(id); ok {
		span.Earliest = p.Latest
	}
	return span, true
}

// Duration returns the length of the attested range of id; missing when
// id is unknown.
func (r *Resolver) Duration(id string) model.Value {
	span, ok := r.AttestedRange(id)
	if !ok {
		return model.Missing()
	}
	return model.Some(float64(span.Duration()))
}

// TotalDuration sums Duration over every registered language.
func (r *Resolver) TotalDuration() int {
	var total int
	for _, id := range r.reg.IDs() {
		span, _ := r.AttestedRange(id)
		total += span.Duration()
	}
	return total
}

// IsAttested reports whether date lies within the language's own
// [Earliest, Latest] range, both bounds inclusive. The parent-adjusted range
// is not used here. Unknown languages yield Unknown.
func (r *Resolver) IsAttested(id string, date int) Attestation {
	l, ok := r.reg.Get(id)
	if !ok {
		return Unknown
	}
	if l.Earliest <= date && date <= l.Latest {
		return Attested
	}
	return Unattested
}
