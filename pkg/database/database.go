// Package database はsqlxによるデータベース接続を提供する。
//
// SQLite（modernc.org/sqlite、CGO不要）とPostgreSQL（lib/pq）に対応する。
// クエリは "?" プレースホルダで記述し、sqlx.DB.Rebind でドライバに合わせて変換する。
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	// DriverSQLite はSQLiteのドライバ名。
	DriverSQLite = "sqlite"
	// DriverPostgres はPostgreSQLのドライバ名。
	DriverPostgres = "postgres"
)

// Config はデータベース接続の設定。
type Config struct {
	// Driver はドライバ名（sqlite または postgres）。
	Driver string `yaml:"driver" env:"DB_DRIVER"`
	// DSN は接続文字列。
	DSN string `yaml:"dsn" env:"DB_DSN"`
}

// Open はデータベースに接続し、疎通を確認する。
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("未対応のデータベースドライバです: %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLiteは書き込みが直列化されるため接続を1本に絞る。
		// インメモリDBは接続ごとに別のDBになるため、この設定が必須となる。
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースの疎通確認に失敗: %w", err)
	}
	return db, nil
}
