package analyzer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for SQLiteWriter:
// - Records are stored and read back per file in insertion order
// - Reopening the database appends under a new session ID
// - NewSink selects SQLite by extension and JSONL otherwise
// - An analyzer run can write straight into SQLite

func TestSQLiteWriter_WritesAndReadsRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "records.db")
	w, err := NewSQLiteWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Write([]Record{
		{File: "a.ts", Chunk: 1, Code: "const a = 1;", MermaidMarkdown: "classDiagram\n"},
		{File: "a.ts", Chunk: 2, Code: "<b/>", MermaidMarkdown: ""},
	}))
	require.NoError(t, w.Write([]Record{{File: "b.ts", Chunk: 1}}))
	require.NoError(t, w.Write(nil))

	records, err := w.Records("a.ts")
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{File: "a.ts", Chunk: 1, Code: "const a = 1;", MermaidMarkdown: "classDiagram\n"},
		{File: "a.ts", Chunk: 2, Code: "<b/>", MermaidMarkdown: ""},
	}, records)

	missing, err := w.Records("none.ts")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSQLiteWriter_AppendsAcrossSessions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.sqlite")

	first, err := NewSQLiteWriter(path)
	require.NoError(t, err)
	require.NoError(t, first.Write([]Record{{File: "a.ts", Chunk: 1, Code: "one"}}))
	firstSession := first.SessionID()
	require.NoError(t, first.Close())

	second, err := NewSQLiteWriter(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Write([]Record{{File: "a.ts", Chunk: 1, Code: "two"}}))

	assert.NotEqual(t, firstSession, second.SessionID())

	records, err := second.Records("a.ts")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "one", records[0].Code)
	assert.Equal(t, "two", records[1].Code)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var sessions int
	require.NoError(t, db.QueryRow("SELECT COUNT(DISTINCT session_id) FROM records").Scan(&sessions))
	assert.Equal(t, 2, sessions)
}

func TestNewSink_SelectsByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		file   string
		sqlite bool
	}{
		{"out.jsonl", false},
		{"out.json", false},
		{"out.db", true},
		{"OUT.SQLITE3", true},
	}

	for _, tt := range tests {
		sink, err := NewSink(filepath.Join(dir, tt.file))
		require.NoError(t, err)

		_, isSQLite := sink.(*SQLiteWriter)
		assert.Equal(t, tt.sqlite, isSQLite, tt.file)
		require.NoError(t, sink.Close())
	}
}

func TestAnalyzer_WritesToSQLite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.ts": "export function one(): number { return 1; }\n",
	})

	sink, err := NewSQLiteWriter(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer sink.Close()

	a, err := New(testConfig(root), sink, nil)
	require.NoError(t, err)
	defer a.Close()

	stats, err := a.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecordsWritten)

	records, err := sink.Records("src/a.ts")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "export function one(): number { return 1; }", records[0].Code)
	assert.Contains(t, records[0].MermaidMarkdown, "+one() number")
}
