package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	_ "modernc.org/sqlite"

	"github.com/sells-group/littel/internal/model"
	"github.com/sells-group/littel/internal/registry"
	"github.com/sells-group/littel/internal/timeslice"
)

// SQLiteWriter stores time slice snapshots in a SQLite database.
type SQLiteWriter struct {
	db *sqlx.DB
}

// Snapshot describes one stored slice.
type Snapshot struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Feature   string    `db:"feature" json:"feature" yaml:"feature"`
	Date      int       `db:"date" json:"date" yaml:"date"`
	Languages int       `db:"languages" json:"languages" yaml:"languages"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}

// SnapshotValue is one language row of a stored slice.
type SnapshotValue struct {
	LanguageID string  `db:"language_id" json:"language_id" yaml:"language_id"`
	Name       string  `db:"name" json:"name" yaml:"name"`
	Value      float64 `db:"value" json:"value" yaml:"value"`
	Code       string  `db:"code" json:"code,omitempty" yaml:"code,omitempty"`
	Inherited  bool    `db:"inherited" json:"inherited" yaml:"inherited"`
	Geometry   []byte  `db:"geom" json:"-" yaml:"-"` // EWKB point, nil without coordinates
}

// Point decodes Geometry. It returns nil for a language stored without
// coordinates.
func (v SnapshotValue) Point() (*geom.Point, error) {
	if len(v.Geometry) == 0 {
		return nil, nil
	}
	g, err := ewkb.Unmarshal(v.Geometry)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: decode point of %s", v.LanguageID)
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, eris.Errorf("sqlite: geometry of %s is %T, not a point", v.LanguageID, g)
	}
	return p, nil
}

// SnapshotFilter narrows Snapshots. Zero values match everything.
type SnapshotFilter struct {
	Features []string
	Limit    int
}

// NewSQLiteWriter opens the database at dsn.
func NewSQLiteWriter(dsn string) (*SQLiteWriter, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteWriter{db: db}, nil
}

const snapshotMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	feature    TEXT NOT NULL,
	date       INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS snapshot_values (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	language_id TEXT NOT NULL,
	name        TEXT NOT NULL,
	value       REAL NOT NULL,
	code        TEXT NOT NULL DEFAULT '',
	inherited   INTEGER NOT NULL DEFAULT 0,
	geom        BLOB,
	PRIMARY KEY (snapshot_id, language_id)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_feature_date ON snapshots(feature, date);
`

// Migrate creates the snapshot tables.
func (w *SQLiteWriter) Migrate(ctx context.Context) error {
	_, err := w.db.ExecContext(ctx, snapshotMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}

// WriteSlice stores s as a new snapshot in one transaction and returns its ID.
// cat may be nil.
func (w *SQLiteWriter) WriteSlice(ctx context.Context, s *timeslice.Slice, cat *registry.Catalog) (string, error) {
	snap := Snapshot{
		ID:        uuid.New().String(),
		Feature:   s.Feature(),
		Date:      s.Date(),
		CreatedAt: time.Now().UTC(),
	}

	var rows []SnapshotValue
	for _, l := range s.Labels(model.Missing()) {
		v := SnapshotValue{
			LanguageID: l.LanguageID,
			Name:       l.Name,
			Value:      l.Value,
			Inherited:  l.Inherited,
		}
		if p := point(l); p != nil {
			b, err := ewkb.Marshal(p, ewkb.NDR)
			if err != nil {
				return "", eris.Wrapf(err, "sqlite: encode point of %s", l.LanguageID)
			}
			v.Geometry = b
		}
		if cat != nil {
			v.Code = cat.CodeDescription(s.Feature(), l.Value)
		}
		rows = append(rows, v)
	}

	err := withTx(ctx, w.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO snapshots (id, feature, date, created_at)
			 VALUES (:id, :feature, :date, :created_at)`, snap); err != nil {
			return eris.Wrap(err, "sqlite: insert snapshot")
		}
		for _, v := range rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO snapshot_values (snapshot_id, language_id, name, value, code, inherited, geom)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				snap.ID, v.LanguageID, v.Name, v.Value, v.Code, v.Inherited, v.Geometry); err != nil {
				return eris.Wrapf(err, "sqlite: insert value %s", v.LanguageID)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return snap.ID, nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// Snapshots lists stored snapshots matching f, newest first.
func (w *SQLiteWriter) Snapshots(ctx context.Context, f SnapshotFilter) ([]Snapshot, error) {
	query := `
		SELECT s.id, s.feature, s.date, s.created_at, COUNT(v.language_id) AS languages
		FROM snapshots s
		LEFT JOIN snapshot_values v ON v.snapshot_id = s.id`
	var args []any
	if len(f.Features) > 0 {
		in, inArgs, err := sqlx.In(" WHERE s.feature IN (?)", f.Features)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: build feature filter")
		}
		query += in
		args = append(args, inArgs...)
	}
	query += `
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	snaps := []Snapshot{}
	if err := w.db.SelectContext(ctx, &snaps, w.db.Rebind(query), args...); err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	return snaps, nil
}

// SnapshotValues returns the rows of snapshot id in language order.
func (w *SQLiteWriter) SnapshotValues(ctx context.Context, id string) ([]SnapshotValue, error) {
	vals := []SnapshotValue{}
	err := w.db.SelectContext(ctx, &vals, `
		SELECT language_id, name, value, code, inherited, geom
		FROM snapshot_values
		WHERE snapshot_id = ?
		ORDER BY language_id`, id)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query snapshot values")
	}
	return vals, nil
}
