// Package migrate applies versioned SQL migrations through dbscope.
//
// Migrations are plain SQL files named <id>_<type>_<name>.<up|down>.sql.
// Up applies the pending ones in ID order, each inside its own dbscope
// transaction together with its row in the dbscope_migrations history table,
// so a failing migration leaves neither its changes nor its history row.
//
//	ctx, _ := dbscope.WithPool(ctx, cfg)
//	defer dbscope.ClosePool(ctx)
//
//	applied, err := migrate.Up(ctx, "./migrations")
//
// Statements are passed to the driver unchanged. MySQL and MariaDB need
// multiStatements=true in the DSN for files holding several statements, and
// run DDL with an implicit commit.
package migrate
