package dbscope

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/aalemi-dev/dbscope/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type logEntry struct {
	level string
	msg   string
	err   error
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, err: err})
}

func (l *recordingLogger) DebugWithContext(_ context.Context, msg string, err error, _ ...map[string]interface{}) {
	l.record("debug", msg, err)
}

func (l *recordingLogger) InfoWithContext(_ context.Context, msg string, err error, _ ...map[string]interface{}) {
	l.record("info", msg, err)
}

func (l *recordingLogger) WarnWithContext(_ context.Context, msg string, err error, _ ...map[string]interface{}) {
	l.record("warn", msg, err)
}

func (l *recordingLogger) ErrorWithContext(_ context.Context, msg string, err error, _ ...map[string]interface{}) {
	l.record("error", msg, err)
}

func (l *recordingLogger) byLevel(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

func TestManager_ObserverSeesLifecycle(t *testing.T) {
	rec := observability.NewRecorder()
	m := New().WithObserver(rec)

	pool := newFakePool()
	poolCtx, err := m.WithPool(context.Background(), fakeConfig{pool: pool})
	require.NoError(t, err)
	txCtx, err := WithTx(poolCtx, sql.LevelRepeatableRead)
	require.NoError(t, err)

	req, err := GetTxRequest(txCtx)
	require.NoError(t, err)
	_, err = req.Query(txCtx, "SELECT 1")
	require.NoError(t, err)
	require.NoError(t, Commit(txCtx))
	require.NoError(t, ClosePool(poolCtx))

	assert.Equal(t, 1, rec.Count("connect"))
	assert.Equal(t, 1, rec.Count("begin"))
	assert.Equal(t, 1, rec.Count("query"))
	assert.Equal(t, 1, rec.Count("commit"))
	assert.Equal(t, 1, rec.Count("close"))

	for _, op := range rec.Operations() {
		assert.Equal(t, "dbscope", op.Component)
		assert.Equal(t, "fake", op.Resource)
		if op.Operation == "begin" || op.Operation == "commit" {
			assert.Equal(t, "Repeatable Read", op.SubResource)
		}
		if op.Operation == "commit" {
			assert.Equal(t, int64(1), op.Size, "one request canceled")
		}
	}
}

func TestManager_LoggerReportsFailures(t *testing.T) {
	log := &recordingLogger{}
	m := New().WithLogger(log)

	pool := newFakePool()
	boom := errors.New("connection refused")
	pool.connectErr = boom
	ctx, err := m.WithPool(context.Background(), fakeConfig{pool: pool})
	require.NoError(t, err)

	req, err := GetRequest(ctx)
	require.NoError(t, err)
	_, err = req.Query(ctx, "SELECT 1")
	require.Error(t, err)

	errs := log.byLevel("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "failed to connect pool", errs[0].msg)
	assert.Same(t, boom, errs[0].err)

	require.NoError(t, ClosePool(ctx))
	require.Len(t, log.byLevel("info"), 1)
}

func TestManager_SwallowedSignalsAreDebugOnly(t *testing.T) {
	log := &recordingLogger{}
	m := New().WithLogger(log)

	pool := newFakePool()
	ctx, err := m.WithPool(context.Background(), fakeConfig{pool: pool})
	require.NoError(t, err)
	txCtx, err := WithTx(ctx, sql.LevelDefault)
	require.NoError(t, err)

	require.NoError(t, Rollback(txCtx))

	assert.Empty(t, log.byLevel("error"))
	assert.Len(t, log.byLevel("debug"), 1)
}

func TestManager_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	m := New().WithTracerProvider(tp)
	pool := newFakePool()
	boom := errors.New("syntax error")
	pool.queryErr = boom

	ctx, err := m.WithPool(context.Background(), fakeConfig{pool: pool})
	require.NoError(t, err)
	txCtx, err := WithTx(ctx, sql.LevelSerializable)
	require.NoError(t, err)

	req, err := GetTxRequest(txCtx)
	require.NoError(t, err)
	_, err = req.Exec(txCtx, "INSERT")
	require.Error(t, err)
	require.NoError(t, Rollback(txCtx))

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range sr.Ended() {
		byName[s.Name()] = s
	}
	for _, name := range []string{"dbscope.connect", "dbscope.begin", "dbscope.exec", "dbscope.rollback"} {
		assert.Contains(t, byName, name)
	}

	assert.Equal(t, codes.Error, byName["dbscope.exec"].Status().Code)
	assert.Equal(t, codes.Unset, byName["dbscope.rollback"].Status().Code)

	var isolation string
	for _, kv := range byName["dbscope.begin"].Attributes() {
		if kv.Key == "db.isolation_level" {
			isolation = kv.Value.AsString()
		}
	}
	assert.Equal(t, "Serializable", isolation)
}
