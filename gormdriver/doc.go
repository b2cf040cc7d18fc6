// Package gormdriver implements dbscope.Pool and dbscope.Transaction on top of
// gorm, so that any gorm dialector (PostgreSQL, MariaDB/MySQL, SQLite) can back
// a dbscope pool.
//
// A Pool is created unconnected and opens its gorm handle on the first
// Connect. Statements are passed to gorm verbatim with `?` placeholders, which
// the dialector rebinds for the target database.
//
// Transactions follow the dbscope driver contract:
//
//   - Begin on a begun transaction returns dbscope.ErrAlreadyBegun.
//   - Commit or Rollback on a transaction that is not begun returns
//     dbscope.ErrNotBegun.
//   - Commit or Rollback while a statement on the transaction is running
//     returns dbscope.ErrRequestInProgress.
//
// After Commit or Rollback the transaction returns to the not-begun state.
package gormdriver
