package db

import (
	"strings"

	"github.com/go-sql-driver/mysql"
)

func IsDupKeyErr(err error) bool {
	mysqlErr, ok := err.(*mysql.MySQLError)
	return ok && strings.Contains(mysqlErr.Error(), "Duplicate")
}
