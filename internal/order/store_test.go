package order

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/nao1215/cloud-demo/pkg/database"
)

// setupTestDB はマイグレーション適用済みのインメモリSQLiteを返す。
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("マイグレーションに失敗: %v", err)
	}
	return db
}

// TestStore_FindByID は注文取得を検証する。
func TestStore_FindByID(t *testing.T) {
	t.Parallel()

	t.Run("シードデータの注文が取得できること", func(t *testing.T) {
		t.Parallel()

		got, err := NewStore(setupTestDB(t)).FindByID(context.Background(), 101)
		if err != nil {
			t.Fatalf("FindByID()でエラーが発生: %v", err)
		}
		want := Order{ID: 101, UserID: 1, Name: "Apple 苹果 iPhone 12", Price: 699900, Num: 1}
		if *got != want {
			t.Errorf("FindByID() = %+v, want %+v", *got, want)
		}
		if got.User != nil {
			t.Error("合成前の注文にユーザーが設定されている")
		}
	})

	t.Run("存在しないIDでErrNotFoundが返ること", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore(setupTestDB(t)).FindByID(context.Background(), 1)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("ドライバのエラーはラップして返ること", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmockの作成に失敗: %v", err)
		}
		defer sqlDB.Close()

		driverErr := errors.New("too many connections")
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, price, num FROM tb_order WHERE id = ?")).
			WithArgs(int64(101)).
			WillReturnError(driverErr)

		_, err = NewStore(sqlx.NewDb(sqlDB, "sqlmock")).FindByID(context.Background(), 101)
		if !errors.Is(err, driverErr) {
			t.Errorf("err = %v, want %v", err, driverErr)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("期待したクエリが実行されていない: %v", err)
		}
	})

	t.Run("sqlmockの行がOrderにマッピングされること", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmockの作成に失敗: %v", err)
		}
		defer sqlDB.Close()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "price", "num"}).
			AddRow(int64(1), int64(101), "Book", int64(1500), 2)
		mock.ExpectQuery("SELECT (.+) FROM tb_order").WithArgs(int64(1)).WillReturnRows(rows)

		got, err := NewStore(sqlx.NewDb(sqlDB, "sqlmock")).FindByID(context.Background(), 1)
		if err != nil {
			t.Fatalf("FindByID()でエラーが発生: %v", err)
		}
		want := Order{ID: 1, UserID: 101, Name: "Book", Price: 1500, Num: 2}
		if *got != want {
			t.Errorf("FindByID() = %+v, want %+v", *got, want)
		}
	})
}
