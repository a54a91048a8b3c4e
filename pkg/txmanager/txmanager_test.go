package txmanager_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

func newDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	_, err = raw.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return dbmetrics.Wrap(raw, nil)
}

func insert(ctx context.Context, db *dbmetrics.DB, name string) error {
	_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, name)
	return err
}

func count(t *testing.T, db *dbmetrics.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestDo_Commit(t *testing.T) {
	db := newDB(t)
	tm := txmanager.NewTransactionManager(db)

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		if err := insert(ctx, db, "a"); err != nil {
			return err
		}
		return insert(ctx, db, "b")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count(t, db))
}

func TestDo_RollbackOnError(t *testing.T) {
	db := newDB(t)
	tm := txmanager.NewTransactionManager(db)
	errBoom := errors.New("boom")

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		require.NoError(t, insert(ctx, db, "a"))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, count(t, db))
}

func TestDo_RollbackOnPanic(t *testing.T) {
	db := newDB(t)
	tm := txmanager.NewTransactionManager(db)

	assert.Panics(t, func() {
		_ = tm.Do(context.Background(), func(ctx context.Context) error {
			require.NoError(t, insert(ctx, db, "a"))
			panic("boom")
		})
	})
	assert.Equal(t, 0, count(t, db))
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	db := newDB(t)
	tm := txmanager.NewTransactionManager(db)
	errInner := errors.New("inner")

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		require.NoError(t, insert(ctx, db, "outer"))
		return tm.Do(ctx, func(ctx context.Context) error {
			require.NoError(t, insert(ctx, db, "inner"))
			return errInner
		})
	})
	require.ErrorIs(t, err, errInner)
	assert.Equal(t, 0, count(t, db))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock", err: fmt.Errorf("update: %w", &pq.Error{Code: "40P01"}), want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "wrapped sentinel", err: fmt.Errorf("%w: commit", txmanager.ErrSerialization), want: true},
		{name: "other", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, txmanager.IsRetryable(tt.err))
		})
	}
}

func TestDo_SerializationFailureInsideFn(t *testing.T) {
	db := newDB(t)
	tm := txmanager.NewTransactionManager(db)

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		require.NoError(t, insert(ctx, db, "a"))
		return fmt.Errorf("insert slot: %w", &pq.Error{Code: "40001"})
	})
	require.ErrorIs(t, err, txmanager.ErrSerialization)
	assert.True(t, txmanager.IsRetryable(err))

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
	assert.Equal(t, 0, count(t, db))
}
