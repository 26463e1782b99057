package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "":
		return formatTable, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", eris.Errorf("unknown output format %q", s)
	}
}

// render writes v as JSON or YAML, or calls table for the table format.
func render(out io.Writer, format outputFormat, v any, table func(w *tabwriter.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(w)
		return eris.Wrap(w.Flush(), "flush table")
	}
}

// renderCmd renders to the command's output in the format of --output.
func renderCmd(cmd *cobra.Command, v any, table func(w *tabwriter.Writer)) error {
	name, _ := cmd.Flags().GetString("output")
	format, err := parseOutputFormat(name)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), format, v, table)
}

// row writes tab-separated cells followed by a newline.
func row(w io.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	_, _ = fmt.Fprintln(w, strings.Join(parts, "\t"))
}
