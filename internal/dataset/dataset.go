// Package dataset bundles the immutable tables every analysis query runs
// against.
package dataset

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/ingest"
	"github.com/sells-group/littel/internal/lineage"
	"github.com/sells-group/littel/internal/registry"
	"github.com/sells-group/littel/internal/store"
)

// Dataset is an explicitly constructed, read-only analysis context. It is
// safe for concurrent use by independent queries.
type Dataset struct {
	Registry *registry.Registry
	Catalog  *registry.Catalog
	Lineage  *lineage.Resolver
	Store    *store.Store
}

// Options configures Build.
type Options struct {
	MaxLineageDepth int // 0 = unbounded (cycles are still rejected)
}

// Build assembles a Dataset from normalized tables.
func Build(n *ingest.Normalized, opts Options) (*Dataset, error) {
	reg, err := registry.Build(n.Languages, opts.MaxLineageDepth)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: build registry")
	}
	ds := &Dataset{
		Registry: reg,
		Catalog:  registry.NewCatalog(n.Features, n.Codes),
		Lineage:  lineage.New(reg),
		Store:    store.Build(reg, n.Observations),
	}
	zap.L().Debug("dataset: built",
		zap.Int("languages", reg.Len()),
		zap.Int("observations", ds.Store.Len()),
		zap.Int("features", len(ds.Store.Features())),
	)
	return ds, nil
}

// Source says where to read the raw tables from. SQLite takes precedence
// over Workbook, which takes precedence over the CSV directory.
type Source struct {
	SQLite   string
	Workbook string
	Dir      string
	Files    ingest.DirOptions
	Defaults ingest.Defaults
}

// Load reads, cleans and builds a Dataset from src.
func Load(ctx context.Context, src Source, opts Options) (*Dataset, error) {
	var (
		tables *ingest.Tables
		err    error
	)
	switch {
	case src.SQLite != "":
		tables, err = ingest.LoadSQLite(ctx, src.SQLite)
	case src.Workbook != "":
		tables, err = ingest.LoadWorkbook(src.Workbook)
	default:
		dir := src.Dir
		if dir == "" {
			dir = "."
		}
		tables, err = ingest.LoadDir(ctx, dir, src.Files)
	}
	if err != nil {
		return nil, eris.Wrap(err, "dataset: load tables")
	}
	defaults := src.Defaults
	if defaults == (ingest.Defaults{}) {
		defaults = ingest.DefaultBounds()
	}
	return Build(ingest.Clean(tables, defaults), opts)
}
