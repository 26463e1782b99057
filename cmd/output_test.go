package main

import (
	"bytes"
	"testing"
	"text/tabwriter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/littel/internal/model"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    outputFormat
		wantErr bool
	}{
		{"", formatTable, false},
		{"table", formatTable, false},
		{"JSON", formatJSON, false},
		{"yml", formatYAML, false},
		{" yaml ", formatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := parseOutputFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRender(t *testing.T) {
	v := struct {
		Name  string      `json:"name" yaml:"name"`
		Value model.Value `json:"value" yaml:"value"`
	}{"x", model.Missing()}

	table := func(w *tabwriter.Writer) { row(w, "NAME", "VALUE"); row(w, v.Name, v.Value) }

	var buf bytes.Buffer
	require.NoError(t, render(&buf, formatJSON, v, table))
	assert.JSONEq(t, `{"name":"x","value":null}`, buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, formatYAML, v, table))
	assert.Equal(t, "name: x\nvalue: null\n", buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, formatTable, v, table))
	assert.Equal(t, "NAME  VALUE\nx     NA\n", buf.String())
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"increase", "UP", "+", "1"} {
		d, err := parseDirection(s)
		require.NoError(t, err, s)
		assert.Equal(t, model.Increase, d, s)
	}
	for _, s := range []string{"decrease", "down", "-", "0"} {
		d, err := parseDirection(s)
		require.NoError(t, err, s)
		assert.Equal(t, model.Decrease, d, s)
	}
	_, err := parseDirection("")
	assert.Error(t, err)
}
