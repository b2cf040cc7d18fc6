package gormdriver

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func setupMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{Conn: mockDB})
	return NewPool("mock", dialector, Options{}), mock
}

func connectMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock := setupMockPool(t)
	require.NoError(t, pool.Connect(context.Background()))
	return pool, mock
}

func TestNewPool_Defaults(t *testing.T) {
	pool, _ := setupMockPool(t)

	assert.Equal(t, "mock", pool.Name())
	assert.Equal(t, Options{
		MaxOpenConns:    DefaultMaxOpenConns,
		MaxIdleConns:    DefaultMaxIdleConns,
		ConnMaxLifetime: DefaultConnMaxLifetime,
	}, pool.Options())
	assert.False(t, pool.IsConnected())
	assert.Nil(t, pool.DB())
}

func TestNewPool_KeepsExplicitOptions(t *testing.T) {
	opts := Options{MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: time.Minute}
	pool := NewPool("explicit", postgres.Open("host=localhost"), opts)
	assert.Equal(t, opts, pool.Options())
}

func TestPool_StatementsBeforeConnect(t *testing.T) {
	pool, _ := setupMockPool(t)

	_, err := pool.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, dbscope.ErrNotConnected)

	_, err = pool.Exec(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, dbscope.ErrNotConnected)

	err = pool.Transaction().Begin(context.Background(), sql.LevelDefault)
	assert.ErrorIs(t, err, dbscope.ErrNotConnected)
}

func TestPool_ConnectIsIdempotent(t *testing.T) {
	pool, _ := connectMockPool(t)
	db := pool.DB()

	require.NoError(t, pool.Connect(context.Background()))
	assert.Same(t, db, pool.DB())
	assert.True(t, pool.IsConnected())
}

func TestPool_Query(t *testing.T) {
	pool, mock := connectMockPool(t)

	mock.ExpectQuery("SELECT id, name FROM users WHERE id > $1").
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "alice").
			AddRow(int64(2), []byte("bob")))

	res, err := pool.Query(context.Background(), "SELECT id, name FROM users WHERE id > ?", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, res.Columns)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, "alice", res.Value(0, "name"))
	assert.Equal(t, "bob", res.Value(1, "name"))
	assert.Equal(t, int64(2), res.Value(1, "id"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_QueryNoRows(t *testing.T) {
	pool, mock := connectMockPool(t)

	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	res, err := pool.Query(context.Background(), "SELECT id FROM users")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.NotNil(t, res.Rows)
}

func TestPool_QueryErrorUnchanged(t *testing.T) {
	pool, mock := connectMockPool(t)
	boom := errors.New("relation \"users\" does not exist")

	mock.ExpectQuery("SELECT id FROM users").WillReturnError(boom)

	_, err := pool.Query(context.Background(), "SELECT id FROM users")
	assert.ErrorIs(t, err, boom)
}

func TestPool_Exec(t *testing.T) {
	pool, mock := connectMockPool(t)

	mock.ExpectExec("UPDATE users SET name = $1 WHERE id = $2").
		WithArgs("carol", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := pool.Exec(context.Background(), "UPDATE users SET name = ? WHERE id = ?", "carol", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_Close(t *testing.T) {
	pool, mock := connectMockPool(t)
	mock.ExpectClose()

	require.NoError(t, pool.Close())
	assert.False(t, pool.IsConnected())
	assert.NoError(t, mock.ExpectationsWereMet())

	// Closed pools stay closed.
	assert.ErrorIs(t, pool.Connect(context.Background()), dbscope.ErrPoolClosed)
	require.NoError(t, pool.Close())
}

func TestPool_CloseUnconnected(t *testing.T) {
	pool, _ := setupMockPool(t)

	require.NoError(t, pool.Close())
	assert.ErrorIs(t, pool.Connect(context.Background()), dbscope.ErrPoolClosed)
}

func TestTx_Lifecycle(t *testing.T) {
	pool, mock := connectMockPool(t)
	tx := pool.Transaction().(*Tx)
	assert.Same(t, pool, tx.Pool())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users (name) VALUES ($1)").
		WithArgs("dave").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	require.NoError(t, tx.Begin(ctx, sql.LevelDefault))
	assert.True(t, tx.Begun())
	assert.ErrorIs(t, tx.Begin(ctx, sql.LevelDefault), dbscope.ErrAlreadyBegun)

	affected, err := tx.Exec(ctx, "INSERT INTO users (name) VALUES (?)", "dave")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.NoError(t, tx.Commit(ctx))
	assert.False(t, tx.Begun())

	assert.ErrorIs(t, tx.Commit(ctx), dbscope.ErrNotBegun)
	assert.ErrorIs(t, tx.Rollback(ctx), dbscope.ErrNotBegun)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_BeginAgainAfterRollback(t *testing.T) {
	pool, mock := connectMockPool(t)
	tx := pool.Transaction()

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := context.Background()
	require.NoError(t, tx.Begin(ctx, sql.LevelDefault))
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Begin(ctx, sql.LevelDefault))
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_BeginErrorUnchanged(t *testing.T) {
	pool, mock := connectMockPool(t)
	boom := errors.New("too many connections")
	mock.ExpectBegin().WillReturnError(boom)

	tx := pool.Transaction().(*Tx)
	assert.ErrorIs(t, tx.Begin(context.Background(), sql.LevelDefault), boom)
	assert.False(t, tx.Begun())
}

func TestTx_BeginSurvivesCallerCancellation(t *testing.T) {
	pool, mock := connectMockPool(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(int64(1)))
	mock.ExpectCommit()

	tx := pool.Transaction()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tx.Begin(ctx, sql.LevelDefault))
	cancel()

	_, err := tx.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_StatementOutsideTransaction(t *testing.T) {
	pool, _ := connectMockPool(t)
	tx := pool.Transaction()

	_, err := tx.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, dbscope.ErrNotBegun)
}

func TestTx_FinalizeWhileStatementRuns(t *testing.T) {
	pool, mock := connectMockPool(t)
	tx := pool.Transaction().(*Tx)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE counters SET n = n + 1").
		WillDelayFor(200 * time.Millisecond).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, tx.Begin(context.Background(), sql.LevelDefault))

	done := make(chan error, 1)
	go func() {
		_, err := tx.Exec(context.Background(), "UPDATE counters SET n = n + 1")
		done <- err
	}()
	require.Eventually(t, func() bool {
		tx.mu.Lock()
		defer tx.mu.Unlock()
		return tx.inflight == 1
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, tx.Commit(context.Background()), dbscope.ErrRequestInProgress)
	assert.ErrorIs(t, tx.Rollback(context.Background()), dbscope.ErrRequestInProgress)

	require.NoError(t, <-done)
	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
