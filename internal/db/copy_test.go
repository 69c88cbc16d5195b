package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "season_records", []string{"run_id", "data"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"season_records"}, []string{"run_id", "seq"}).WillReturnResult(3)

	rows := [][]any{{"r1", 0}, {"r1", 1}, {"r1", 2}}
	n, err := CopyFrom(context.Background(), mock, "season_records", []string{"run_id", "seq"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"season_records"}, []string{"run_id", "seq"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"r1", 0}}
	_, err = CopyFrom(context.Background(), mock, "season_records", []string{"run_id", "seq"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO season_records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_SchemaQualified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"archive", "season_records"}, []string{"run_id", "seq"}).WillReturnResult(1)

	n, err := CopyFrom(context.Background(), mock, "archive.season_records", []string{"run_id", "seq"}, [][]any{{"r1", 0}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_RowWidthMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := [][]any{{"r1", 0}, {"r1"}}
	_, err = CopyFrom(context.Background(), mock, "season_records", []string{"run_id", "seq"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1 has 1 values, want 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolSatisfiedByMock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var _ Pool = mock
}
