package csvio

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_BasicAndBOM(t *testing.T) {
	in := "\uFEFFmaterial_id,material_name\n1,Sea Salt\n2,\"Pork, ground\"\n"
	tbl, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"material_id", "material_name"}, tbl.Header)
	assert.Equal(t, 2, tbl.Len())
	col, err := tbl.RequireColumn("material_name")
	require.NoError(t, err)
	assert.Equal(t, 1, col)
	assert.Equal(t, "Pork, ground", tbl.Rows[1][col])
}

func TestRead_PadsShortRowsAndRejectsWideRows(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b,c\n1\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestRead_EmptyAndMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)

	// a quote left open runs to the end of input as one field
	tbl, err := Read(strings.NewReader("a,b\n\"unterminated,2\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Contains(t, tbl.Rows[0][0], "unterminated,2")
	assert.Equal(t, "", tbl.Rows[0][1])
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestTable_Columns(t *testing.T) {
	tbl, err := NewTable([]string{"material_name", "x", "x"}, [][]string{{"salt", "1", "2"}})
	require.NoError(t, err)

	i, ok := tbl.Column("x")
	assert.True(t, ok)
	assert.Equal(t, 1, i, "first duplicate header wins")

	_, err = tbl.RequireColumn("halal_status")
	assert.ErrorIs(t, err, ErrMissingColumn)

	idx := tbl.EnsureColumn("halal_status")
	assert.Equal(t, 3, idx)
	assert.Equal(t, []string{"salt", "1", "2", ""}, tbl.Rows[0])
	assert.Equal(t, idx, tbl.EnsureColumn("halal_status"), "existing column is reused")

	_, err = NewTable(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestRead_BareQuoteInName(t *testing.T) {
	tbl, err := Read(strings.NewReader("material_name,halal_status\nGelatin 5\" sheet,\n\"Pork, ground\",haram\n"))
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{`Gelatin 5" sheet`, ""}, tbl.Rows[0])
	assert.Equal(t, []string{"Pork, ground", "haram"}, tbl.Rows[1])
}

func TestWriteFileAtomic_RoundTripAndCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	tbl, err := NewTable([]string{"material_name", "halal_status"}, [][]string{
		{"Pork, ground", "haram"},
		{"water", ""},
	})
	require.NoError(t, err)
	require.NoError(t, WriteFileAtomic(path, tbl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "material_name,halal_status\n\"Pork, ground\",haram\nwater,\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, back.Rows)
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o600))

	tbl, err := NewTable([]string{"material_name"}, [][]string{{"salt"}})
	require.NoError(t, err)
	require.NoError(t, WriteFileAtomic(path, tbl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "material_name\nsalt\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_ToBuffer(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))
	assert.Equal(t, "a\n1\n", buf.String())
}
