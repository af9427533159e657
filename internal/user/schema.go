package user

import (
	"context"
	"embed"

	"github.com/jmoiron/sqlx"
	"github.com/nao1215/cloud-demo/pkg/migration"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate はユーザーサービスのスキーマとシードデータを適用する。
func Migrate(ctx context.Context, db *sqlx.DB) error {
	return migration.Run(ctx, db, migrationsFS, "migrations")
}
