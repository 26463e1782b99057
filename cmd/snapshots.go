package main

import (
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/littel/internal/export"
	"github.com/sells-group/littel/internal/model"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect time slices exported to SQLite",
	Long:  "Commands for listing and viewing snapshots written by export --format sqlite.",
}

// -- snapshots list --

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		w, err := openSnapshots(cmd)
		if err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck

		feat, _ := cmd.Flags().GetString("feature")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := export.SnapshotFilter{Limit: limit}
		if feat != "" {
			filter.Features = strings.Split(feat, ",")
		}
		snaps, err := w.Snapshots(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "snapshots list")
		}

		return renderCmd(cmd, snaps, func(tw *tabwriter.Writer) {
			formatSnapshotsList(tw, snaps)
		})
	},
}

// -- snapshots show --

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Show the language values of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		w, err := openSnapshots(cmd)
		if err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck

		vals, err := w.SnapshotValues(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "snapshots show")
		}
		if len(vals) == 0 {
			return eris.Errorf("snapshots show: no snapshot %q", args[0])
		}

		rows := make([]snapshotRow, 0, len(vals))
		for _, v := range vals {
			r := snapshotRow{SnapshotValue: v}
			p, err := v.Point()
			if err != nil {
				return err
			}
			if p != nil {
				r.Longitude, r.Latitude = model.Some(p.X()), model.Some(p.Y())
			}
			rows = append(rows, r)
		}

		return renderCmd(cmd, rows, func(tw *tabwriter.Writer) {
			formatSnapshotRows(tw, rows)
		})
	},
}

func init() {
	snapshotsCmd.PersistentFlags().String("db", "", "snapshot database (default: <export.dir>/snapshots.db)")

	snapshotsListCmd.Flags().String("feature", "", "only list snapshots of these features (comma-separated)")
	snapshotsListCmd.Flags().Int("limit", 50, "max number of snapshots to display")

	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

// snapshotRow is a stored value with its decoded coordinates.
type snapshotRow struct {
	export.SnapshotValue `yaml:",inline"`
	Latitude             model.Value `json:"latitude" yaml:"latitude"`
	Longitude            model.Value `json:"longitude" yaml:"longitude"`
}

func openSnapshots(cmd *cobra.Command) (*export.SQLiteWriter, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = snapshotDBPath()
	}
	w, err := export.NewSQLiteWriter(path)
	if err != nil {
		return nil, err
	}
	if err := w.Migrate(cmd.Context()); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func snapshotDBPath() string {
	return filepath.Join(cfg.Export.Dir, defaultExportName("", 0, export.FormatSQLite))
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSnapshotsList(w *tabwriter.Writer, snaps []export.Snapshot) {
	row(w, "ID", "FEATURE", "DATE", "LANGUAGES", "CREATED")
	row(w, "--", "-------", "----", "---------", "-------")
	for _, s := range snaps {
		row(w, truncateID(s.ID), s.Feature, model.FormatDate(s.Date), s.Languages, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func formatSnapshotRows(w *tabwriter.Writer, rows []snapshotRow) {
	row(w, "LANGUAGE", "NAME", "VALUE", "CODE", "INHERITED", "LAT", "LON")
	row(w, "--------", "----", "-----", "----", "---------", "---", "---")
	for _, r := range rows {
		row(w, r.LanguageID, r.Name, r.Value, r.Code, r.Inherited, r.Latitude, r.Longitude)
	}
}
