package migration

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// openTestDB はテスト用のインメモリSQLiteを開く。
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"migrations/000002_seed_items.up.sql": {Data: []byte(
			"INSERT INTO items (id, name) VALUES (1, 'a'), (2, 'b');",
		)},
		"migrations/000001_create_items.up.sql": {Data: []byte(
			"CREATE TABLE IF NOT EXISTS items (id BIGINT PRIMARY KEY, name VARCHAR(100) NOT NULL);",
		)},
		"migrations/000002_seed_items.down.sql": {Data: []byte("DELETE FROM items;")},
		"migrations/README.md":                  {Data: []byte("ignored")},
	}
}

// TestRun はマイグレーションの適用を検証する。
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("バージョン順に適用されること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		if err := Run(context.Background(), db, testFS(), "migrations"); err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}

		var n int
		if err := db.Get(&n, "SELECT COUNT(*) FROM items"); err != nil {
			t.Fatalf("件数の取得に失敗: %v", err)
		}
		if n != 2 {
			t.Errorf("件数 = %d, want 2", n)
		}

		var versions []int
		if err := db.Select(&versions, "SELECT version FROM schema_migrations ORDER BY version"); err != nil {
			t.Fatalf("バージョンの取得に失敗: %v", err)
		}
		if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
			t.Errorf("versions = %v, want [1 2]", versions)
		}
	})

	t.Run("2回実行しても適用済みのものはスキップされること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		for i := 0; i < 2; i++ {
			if err := Run(context.Background(), db, testFS(), "migrations"); err != nil {
				t.Fatalf("%d回目のRun()でエラーが発生: %v", i+1, err)
			}
		}

		var n int
		if err := db.Get(&n, "SELECT COUNT(*) FROM items"); err != nil {
			t.Fatalf("件数の取得に失敗: %v", err)
		}
		if n != 2 {
			t.Errorf("件数 = %d, want 2", n)
		}
	})

	t.Run("SQLエラーの場合はバージョンが記録されないこと", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		fsys := fstest.MapFS{
			"migrations/000001_broken.up.sql": {Data: []byte("CREATE TABLEE broken;")},
		}
		if err := Run(context.Background(), db, fsys, "migrations"); err == nil {
			t.Fatal("Run()がエラーを返すべきだが、nilが返った")
		}

		var n int
		if err := db.Get(&n, "SELECT COUNT(*) FROM schema_migrations"); err != nil {
			t.Fatalf("件数の取得に失敗: %v", err)
		}
		if n != 0 {
			t.Errorf("記録されたバージョン数 = %d, want 0", n)
		}
	})

	t.Run("ディレクトリが存在しない場合はエラーが返ること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		if err := Run(context.Background(), db, fstest.MapFS{}, "migrations"); err == nil {
			t.Fatal("Run()がエラーを返すべきだが、nilが返った")
		}
	})
}
