package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"frameload-sync/core/reconcile"
	"frameload-sync/core/sheet"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutput() reconcile.Output {
	return reconcile.Output{
		RunID:       "run-1",
		Summary:     reconcile.Summary{Rows: 1, Applied: 1},
		Table:       reconcile.Table{Columns: []reconcile.TableColumn{{Name: "Value1", Values: []sheet.Cell{sheet.Number(-2)}}}},
		Diagnostics: []string{"run run-1: 1 rows, 1 applied, 0 failed, 0 skipped, 0 removed"},
	}
}

func TestWriteOutput(t *testing.T) {
	out := sampleOutput()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, out, "text"))
		assert.Equal(t, out.Diagnostics[0]+"\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, out, "json"))
		var decoded reconcile.Output
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "run-1", decoded.RunID)
		assert.Equal(t, 1, decoded.Summary.Applied)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, out, "yaml"))
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "run-1", decoded["run_id"])
	})

	t.Run("unknown", func(t *testing.T) {
		assert.EqualError(t, writeOutput(&bytes.Buffer{}, out, "xml"), `unknown output format "xml"`)
	})
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["start"])
	assert.True(t, names["sync"])
	assert.True(t, names["integrity"])

	sub, _, err := RootCmd.Find([]string{"sync", "frame-loads"})
	require.NoError(t, err)
	for _, flag := range []string{"workbook", "sheet", "replace", "auto-remove", "dry-run", "duplicates", "output"} {
		assert.NotNil(t, sub.Flags().Lookup(flag), flag)
	}
}
