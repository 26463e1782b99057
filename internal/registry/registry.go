// Package registry holds the immutable language and feature reference tables.
package registry

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/model"
)

var (
	// ErrMalformedLineage is returned when parent pointers form a cycle or a
	// chain longer than the configured maximum depth.
	ErrMalformedLineage = eris.New("registry: malformed lineage")
	// ErrUnknownLanguage is returned by lookups that require a known language.
	ErrUnknownLanguage = eris.New("registry: unknown language")
)

// NoParent is the parent index of roots and of languages whose parent ID is
// not in the registry.
const NoParent = -1

// Registry is an arena of languages indexed by ID with validated parent
// indices. It is immutable once built.
type Registry struct {
	langs  []model.Language
	index  map[string]int
	parent []int
	ids    []string // sorted
}

// Build indexes langs and resolves parent pointers. Duplicate IDs are an
// error. Parent IDs that do not name a registered language are kept on the
// Language but resolve to NoParent. A cycle in the parent graph, or a chain
// deeper than maxDepth (when maxDepth > 0), returns ErrMalformedLineage.
func Build(langs []model.Language, maxDepth int) (*Registry, error) {
	r := &Registry{
		langs:  make([]model.Language, len(langs)),
		index:  make(map[string]int, len(langs)),
		parent: make([]int, len(langs)),
		ids:    make([]string, 0, len(langs)),
	}
	copy(r.langs, langs)

	for i, l := range r.langs {
		if l.ID == "" {
			return nil, eris.Errorf("registry: language at row %d has no ID", i)
		}
		if _, dup := r.index[l.ID]; dup {
			return nil, eris.Errorf("registry: duplicate language %q", l.ID)
		}
		r.index[l.ID] = i
		r.ids = append(r.ids, l.ID)
	}
	sort.Strings(r.ids)

	var dangling int
	for i, l := range r.langs {
		r.parent[i] = NoParent
		if !l.HasParent() {
			continue
		}
		p, ok := r.index[l.ParentID]
		if !ok {
			dangling++
			zap.L().Debug("registry: parent not registered",
				zap.String("language", l.ID),
				zap.String("parent", l.ParentID),
			)
			continue
		}
		r.parent[i] = p
	}
	if dangling > 0 {
		zap.L().Warn("registry: languages with unregistered parents", zap.Int("count", dangling))
	}

	if err := r.validate(maxDepth); err != nil {
		return nil, err
	}
	return r, nil
}

// validate checks that every parent chain terminates, colouring nodes so
// each is walked at most once.
func (r *Registry) validate(maxDepth int) error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(r.langs))
	depth := make([]int, len(r.langs)) // number of ancestors

	for start := range r.langs {
		if state[start] == done {
			continue
		}
		var path []int
		i := start
		for i != NoParent && state[i] == unvisited {
			state[i] = inProgress
			path = append(path, i)
			i = r.parent[i]
		}
		if i != NoParent && state[i] == inProgress {
			return eris.Wrapf(ErrMalformedLineage, "cycle through %q", r.langs[i].ID)
		}

		base := -1
		if i != NoParent {
			base = depth[i]
		}
		for k := len(path) - 1; k >= 0; k-- {
			base++
			depth[path[k]] = base
			state[path[k]] = done
			if maxDepth > 0 && base > maxDepth {
				return eris.Wrapf(ErrMalformedLineage, "%q has more than %d ancestors", r.langs[path[k]].ID, maxDepth)
			}
		}
	}
	return nil
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	return len(r.langs)
}

// Index returns the arena index of id.
func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// At returns the language at arena index i.
func (r *Registry) At(i int) model.Language {
	return r.langs[i]
}

// ParentIndex returns the arena index of the parent of the language at i,
// or NoParent.
func (r *Registry) ParentIndex(i int) int {
	return r.parent[i]
}

// Get returns the language with the given ID.
func (r *Registry) Get(id string) (model.Language, bool) {
	i, ok := r.index[id]
	if !ok {
		return model.Language{}, false
	}
	return r.langs[i], true
}

// MustGet returns the language with the given ID or ErrUnknownLanguage.
func (r *Registry) MustGet(id string) (model.Language, error) {
	l, ok := r.Get(id)
	if !ok {
		return model.Language{}, eris.Wrapf(ErrUnknownLanguage, "%q", id)
	}
	return l, nil
}

// IDs returns all language IDs in ascending order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Name returns the display name of id, or "" when unknown.
func (r *Registry) Name(id string) string {
	l, _ := r.Get(id)
	return l.Name
}

// Latitude returns the latitude of id; missing when unknown.
func (r *Registry) Latitude(id string) model.Value {
	l, ok := r.Get(id)
	if !ok {
		return model.Missing()
	}
	return l.Latitude
}

// Longitude returns the longitude of id; missing when unknown.
func (r *Registry) Longitude(id string) model.Value {
	l, ok := r.Get(id)
	if !ok {
		return model.Missing()
	}
	return l.Longitude
}
