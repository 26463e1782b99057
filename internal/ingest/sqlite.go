package ingest

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// LoadSQLite reads the four tables from a SQLite database. Each table must
// be named after its CSV counterpart and carry the same column names.
func LoadSQLite(ctx context.Context, dsn string) (*Tables, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	defer func() { _ = db.Close() }()
	return LoadDB(ctx, db)
}

// LoadDB reads the four tables through an open database handle.
func LoadDB(ctx context.Context, db *sql.DB) (*Tables, error) {
	raw := make(map[string][]Record, len(tableNames))
	for _, table := range tableNames {
		recs, err := queryRecords(ctx, db, table)
		if err != nil {
			return nil, err
		}
		raw[table] = recs
	}
	return decodeTables(raw)
}

func queryRecords(ctx context.Context, db *sql.DB, table string) ([]Record, error) {
	// table is always one of tableNames, never user input.
	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", table)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: columns %s", table)
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	var recs []Record
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", table)
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			rec[col] = vals[i].String // NULL scans as ""
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "sqlite: iterate %s", table)
	}
	return recs, nil
}
