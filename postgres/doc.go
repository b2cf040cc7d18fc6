// Package postgres is the PostgreSQL dialect for dbscope.
//
// A Config builds an unconnected gormdriver pool for gorm's pgx-based
// PostgreSQL dialector, and is itself a dbscope.PoolConfig:
//
//	cfg := postgres.Config{
//	    Connection: postgres.Connection{
//	        Host:     "localhost",
//	        Port:     "5432",
//	        User:     "postgres",
//	        Password: "password",
//	        DbName:   "mydb",
//	        SSLMode:  "disable",
//	    },
//	}
//
//	ctx, err := dbscope.WithPool(context.Background(), cfg)
//	if err != nil {
//	    // handle
//	}
//	defer dbscope.ClosePool(ctx)
//
// # Error handling
//
// dbscope hands back driver errors untouched. TranslateError maps them
// (*pgconn.PgError codes first, then message patterns) onto the package
// sentinels, and IsRetryable tells whether a failed transaction is worth
// running again:
//
//	if err := dbscope.Commit(txCtx); err != nil {
//	    if postgres.IsRetryable(err) {
//	        // retry the unit of work
//	    }
//	    if errors.Is(postgres.TranslateError(err), postgres.ErrDuplicateKey) {
//	        // handle conflict
//	    }
//	}
package postgres
