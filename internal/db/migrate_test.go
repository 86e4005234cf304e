package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execRecorder is a DBTX that only records Exec calls.
type execRecorder struct {
	stmts  []string
	failAt int
}

func (r *execRecorder) Exec(_ context.Context, sql string, _ ...interface{}) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	if len(r.stmts) == r.failAt {
		return pgconn.CommandTag{}, errors.New("relation exists")
	}
	return pgconn.CommandTag{}, nil
}

func (r *execRecorder) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (r *execRecorder) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

func TestMigrate(t *testing.T) {
	rec := &execRecorder{}
	require.NoError(t, Migrate(context.Background(), rec))
	require.Len(t, rec.stmts, len(schema))
	for _, s := range rec.stmts {
		assert.Contains(t, s, "IF NOT EXISTS")
	}
	assert.True(t, strings.Contains(rec.stmts[len(rec.stmts)-1], "UNIQUE (diagram_id, version)"))
}

func TestMigrateStopsOnError(t *testing.T) {
	rec := &execRecorder{failAt: 2}
	err := Migrate(context.Background(), rec)
	assert.ErrorContains(t, err, "migrate step 2")
	assert.Len(t, rec.stmts, 2)
}

func TestListDiagramsQueryError(t *testing.T) {
	_, err := New(&execRecorder{}).ListDiagramsForOwner(context.Background(), "user_x")
	assert.Error(t, err)
}
