package mysql

import (
	"database/sql"
	"fmt"

	"github.com/Hillsrion/safespace-sub000/config"
	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type SafeSpaceDB struct {
	*PostDB
	*SpaceDB
	*UserDB
	*EntityDB
	sess  db.Session
	sqlDB *sql.DB
}

// GetDatabase opens the pooled connection. The handle is constructed once
// in cmd and injected; Close is the caller's responsibility.
func GetDatabase(cfg *config.Config) (appDb.Database, error) {
	sqlDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBName))
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &SafeSpaceDB{
		PostDB:   getPostDB(sess),
		SpaceDB:  getSpaceDB(sess),
		UserDB:   getUserDB(sess),
		EntityDB: getEntityDB(sess),
		sess:     sess,
		sqlDB:    sqlDB,
	}, nil
}

func (ssdb *SafeSpaceDB) GetSQLDB() *sql.DB {
	return ssdb.sqlDB
}

func (ssdb *SafeSpaceDB) Close() error {
	return ssdb.sess.Close()
}

// nullable maps the empty string to NULL for optional foreign keys.
func nullable(val string) interface{} {
	if val == "" {
		return nil
	}
	return val
}
