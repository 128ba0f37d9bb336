package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagged struct {
	ID      string   `csv:"id"`
	Name    string
	Artists []string `csv:"artist_name"`
	hidden  string
}

func TestStructToCsvHeader(t *testing.T) {
	want := []string{"id", "Name", "artist_name"}

	assert.Equal(t, want, StructToCsvHeader(reflect.TypeOf(tagged{})))
	assert.Equal(t, want, StructToCsvHeader(reflect.TypeOf(&tagged{})))
}

func TestCreateAndAppendLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, CreateCsvFile(path, []string{"a", "b"}, false))
	require.NoError(t, AppendCsvRecords(path, [][]string{{"1", `"x, y"`}}, false))
	require.NoError(t, AppendCsvRecords(path, [][]string{{"2", `"z"`}}, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x, y\"\n2,\"z\"\n", string(data))
}

func TestCreateTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	require.NoError(t, CreateCsvFile(path, []string{"a"}, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func TestAppendStrictRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	row := []string{"1", `Say "Hi", friend`}

	require.NoError(t, CreateCsvFile(path, []string{"n", "title"}, true))
	require.NoError(t, AppendCsvRecords(path, [][]string{row}, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, row, records[1])
}

func TestAppendRequiresExistingFile(t *testing.T) {
	err := AppendCsvRecords(filepath.Join(t.TempDir(), "missing.csv"), [][]string{{"x"}}, false)
	assert.Error(t, err)
}
