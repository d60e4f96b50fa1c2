package output

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Test Plan for output:
// - FormatFromPath maps extensions, case-insensitively, and rejects unknown ones
// - CSV has the header row and renders unknown diameter as "nan", absent name as empty
// - JSON is an array with a nested neo object; unknown diameter and name are null
// - YAML is one document per approach
// - XLSX has a header row and one row per approach on the approaches sheet
// - SQLite stores every approach, unknowns as NULL
// - PDF output starts with the PDF magic bytes
// - WriteFile replaces the target atomically and refuses a locked path
// - Orphan approaches keep their designation and leave NEO attributes unknown
// - Writers stop on context cancellation
// - Print stops after limit without pulling further elements

func strPtr(s string) *string { return &s }

func fixture() *neo.Database {
	eros := neo.NewNearEarthObject("433", strPtr("Eros"), 16.84, false)
	ab := neo.NewNearEarthObject("2020 AB", nil, neo.UnknownDiameter, true)

	approaches := []*neo.CloseApproach{
		neo.NewCloseApproach("433", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 0.15, 5.0),
		neo.NewCloseApproach("2020 AB", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), 0.05, 12.5),
		neo.NewCloseApproach("3200", time.Date(2024, 12, 14, 0, 0, 0, 0, time.UTC), 0.07, 33.0),
	}
	return neo.NewDatabase([]*neo.NearEarthObject{eros, ab}, approaches)
}

func all() iter.Seq[*neo.CloseApproach] {
	return slices.Values(fixture().Approaches())
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Format
	}{
		{"out.csv", FormatCSV},
		{"OUT.JSON", FormatJSON},
		{"a/b.yml", FormatYAML},
		{"a/b.yaml", FormatYAML},
		{"report.xlsx", FormatXLSX},
		{"report.pdf", FormatPDF},
		{"store.db", FormatSQLite},
		{"store.sqlite", FormatSQLite},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("out.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewCSVWriter(&buf).Write(context.Background(), all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, columns, rows[0])
	assert.Equal(t, []string{"2024-01-01 10:00", "0.15", "5", "433", "Eros", "16.84", "false"}, rows[1])
	assert.Equal(t, []string{"2024-01-01 23:59", "0.05", "12.5", "2020 AB", "", "nan", "true"}, rows[2])
	// Orphan
	assert.Equal(t, []string{"2024-12-14 00:00", "0.07", "33", "3200", "", "nan", ""}, rows[3])
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf).Write(context.Background(), all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)

	first := decoded[0]
	assert.Equal(t, "2024-01-01 10:00", first["datetime_utc"])
	assert.Equal(t, 0.15, first["distance_au"])
	assert.Equal(t, 5.0, first["velocity_km_s"])
	assert.Equal(t, map[string]any{
		"designation":           "433",
		"name":                  "Eros",
		"diameter_km":           16.84,
		"potentially_hazardous": false,
	}, first["neo"])

	second := decoded[1]["neo"].(map[string]any)
	assert.Nil(t, second["name"])
	assert.Nil(t, second["diameter_km"])
	assert.Equal(t, true, second["potentially_hazardous"])
}

func TestJSONWriter_EmptyStream(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf).Write(context.Background(), slices.Values([]*neo.CloseApproach(nil)))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewYAMLWriter(&buf).Write(context.Background(), all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	dec := yaml.NewDecoder(&buf)
	var docs []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			break
		}
		docs = append(docs, rec)
	}
	require.Len(t, docs, 3)
	assert.Equal(t, "433", docs[0].NEO.Designation)
	require.NotNil(t, docs[0].NEO.DiameterKm)
	assert.Equal(t, 16.84, *docs[0].NEO.DiameterKm)
	assert.Nil(t, docs[1].NEO.DiameterKm)
	assert.Equal(t, "3200", docs[2].NEO.Designation)
}

func TestXLSXWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewXLSXWriter(&buf).Write(context.Background(), all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "433", rows[1][3])
	assert.Equal(t, "Eros", rows[1][4])
	assert.Equal(t, "2020 AB", rows[2][3])
}

func TestPDFWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewPDFWriter(&buf).Write(context.Background(), all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestSQLiteWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "approaches.db")
	n, err := NewSQLiteWriter(path).Write(context.Background(), all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM approaches").Scan(&count))
	assert.Equal(t, 3, count)

	var name sql.NullString
	var diameter sql.NullFloat64
	require.NoError(t, db.QueryRow(
		"SELECT name, diameter_km FROM approaches WHERE designation = ?", "2020 AB",
	).Scan(&name, &diameter))
	assert.False(t, name.Valid)
	assert.False(t, diameter.Valid)

	require.NoError(t, db.QueryRow(
		"SELECT name, diameter_km FROM approaches WHERE designation = ?", "433",
	).Scan(&name, &diameter))
	assert.Equal(t, "Eros", name.String)
	assert.Equal(t, 16.84, diameter.Float64)
}

func TestWriteFile_ReplacesTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	n, err := WriteFile(context.Background(), path, all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "datetime_utc,"))

	// Only the output and its lock file remain
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"out.csv", "out.csv.lock"}, names)
}

func TestWriteFile_SQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.db")
	n, err := WriteFile(context.Background(), path, all())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.FileExists(t, path)
}

func TestWriteFile_Locked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	other := flock.New(path + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	_, err = WriteFile(context.Background(), path, all())
	assert.ErrorIs(t, err, ErrLocked)
	assert.NoFileExists(t, path)
}

func TestWriteFile_UnsupportedFormatWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := WriteFile(context.Background(), filepath.Join(dir, "out.txt"), all())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriters_StopOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	n, err := NewCSVWriter(&buf).Write(ctx, all())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)

	path := filepath.Join(t.TempDir(), "out.json")
	_, err = WriteFile(ctx, path, all())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, path)
}

func TestPrint_StopsAtLimit(t *testing.T) {
	t.Parallel()

	db := fixture()
	cursor := db.Query(neo.Filters{})

	var buf bytes.Buffer
	n, err := Print(&buf, cursor.All(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, cursor.Scanned())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "On 2024-01-01 10:00, '433 (Eros)' approaches Earth at a distance of 0.15 au and a velocity of 5.00 km/s.", lines[0])
}

func TestPrintNEO_Verbose(t *testing.T) {
	t.Parallel()

	eros, ok := fixture().FindByDesignation("433")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, PrintNEO(&buf, eros, false))
	assert.Equal(t, "NEO 433 (Eros) has a diameter of 16.840 km and is not potentially hazardous.\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintNEO(&buf, eros, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "- On 2024-01-01 10:00"))
}
