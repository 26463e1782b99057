package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

func foldName(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// FindByName returns the IDs of languages whose name equals name, ignoring
// case and Unicode normalization. When nothing matches exactly, languages
// whose name contains name are returned instead. Results are in ID order.
func (r *Registry) FindByName(name string) []string {
	q := foldName(name)
	if q == "" {
		return nil
	}

	var exact, partial []string
	for _, id := range r.ids {
		n := foldName(r.langs[r.index[id]].Name)
		switch {
		case n == q:
			exact = append(exact, id)
		case strings.Contains(n, q):
			partial = append(partial, id)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}
