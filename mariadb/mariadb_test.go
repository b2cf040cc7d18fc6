package mariadb

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/gormdriver"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testConfig() Config {
	return Config{
		Connection: Connection{
			Host:            "db.internal",
			Port:            "3306",
			User:            "app",
			Password:        "p@ss:word",
			DbName:          "orders",
			ParseTime:       true,
			Loc:             "UTC",
			MultiStatements: true,
			Timeout:         5 * time.Second,
		},
	}
}

func TestConfig_DSN(t *testing.T) {
	dsn, err := testConfig().DSN()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3306", parsed.Addr)
	assert.Equal(t, "orders", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.MultiStatements)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestConfig_DSNInvalidLocation(t *testing.T) {
	cfg := testConfig()
	cfg.Connection.Loc = "Nowhere/Special"

	_, err := cfg.DSN()
	assert.Error(t, err)
	_, err = cfg.NewPool()
	assert.Error(t, err)
}

func TestConfig_NewPool(t *testing.T) {
	pool, err := testConfig().NewPool()
	require.NoError(t, err)

	gp := pool.(*gormdriver.Pool)
	assert.Equal(t, DefaultName, gp.Name())
	assert.Equal(t, gormdriver.DefaultMaxOpenConns, gp.Options().MaxOpenConns)
	assert.False(t, gp.IsConnected())

	_, err = Config{}.NewPool()
	assert.Error(t, err)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		number uint16
		want   error
	}{
		{1062, ErrDuplicateKey},
		{1452, ErrForeignKey},
		{1048, ErrNotNullViolation},
		{1146, ErrTableNotFound},
		{1205, ErrLockTimeout},
		{1213, ErrDeadlock},
		{1040, ErrTooManyConnections},
		{1064, ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.number), func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &mysql.MySQLError{Number: tt.number})
			assert.Equal(t, tt.want, TranslateError(err))
		})
	}

	assert.Nil(t, TranslateError(nil))
	assert.Equal(t, ErrConnectionLost, TranslateError(mysql.ErrInvalidConn))

	unknown := &mysql.MySQLError{Number: 9999}
	assert.Same(t, unknown, TranslateError(unknown))

	other := errors.New("something else")
	assert.Same(t, other, TranslateError(other))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1205}))
	assert.False(t, IsRetryable(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsRetryable(nil))
}

func TestFXModule_ProvidesPoolConfig(t *testing.T) {
	var pc dbscope.PoolConfig
	app := fxtest.New(t,
		FXModule,
		fx.Provide(testConfig),
		fx.Populate(&pc),
	)
	app.RequireStart()
	defer app.RequireStop()

	_, ok := pc.(Config)
	assert.True(t, ok)
}
