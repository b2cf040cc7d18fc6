// Package mariadb is the MariaDB/MySQL dialect for dbscope, built on gorm's
// MySQL dialector and go-sql-driver/mysql.
//
//	ctx, err := dbscope.WithPool(ctx, mariadb.Config{
//	    Connection: mariadb.Connection{
//	        Host:      "localhost",
//	        Port:      "3306",
//	        User:      "root",
//	        DbName:    "app",
//	        ParseTime: true,
//	    },
//	})
//
// Driver errors reach callers unchanged. TranslateError maps *mysql.MySQLError
// numbers onto the package sentinels, and IsRetryable reports lock wait
// timeouts, deadlocks and lost connections.
package mariadb
