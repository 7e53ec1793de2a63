package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	stmts, err := splitStatements(`
-- comment; with semicolon
CREATE TABLE a (x String DEFAULT 'it''s');
CREATE TABLE b (y Int32)
;
`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE a (x String DEFAULT 'it''s')",
		"CREATE TABLE b (y Int32)",
	}, stmts)

	_, err = splitStatements(`INSERT INTO a VALUES ('x;y');`)
	assert.Error(t, err)
}

func TestEmbeddedFilesParse(t *testing.T) {
	files, err := sqlFiles(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		data, err := fs.ReadFile(ClickhouseFS, "clickhouse/"+f)
		require.NoError(t, err)
		stmts, err := splitStatements(string(data))
		require.NoError(t, err, f)
		assert.NotEmpty(t, stmts, f)
	}

	files, err = sqlFiles(PostgresFS, "postgres")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_talents.sql", "002_scam_reports.sql"}, files)
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default:@localhost:9000/lab")
	require.NoError(t, err)
	assert.Equal(t, "lab", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}
