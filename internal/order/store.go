package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound は指定された注文が存在しないことを表す。
var ErrNotFound = errors.New("注文レコードが存在しません")

// Store は tb_order へのアクセスを提供する。
type Store struct {
	db *sqlx.DB
}

// NewStore は新しいStoreを生成する。
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// FindByID はIDで注文を取得する。存在しない場合は ErrNotFound を返す。
func (s *Store) FindByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := s.db.GetContext(ctx, &o,
		s.db.Rebind("SELECT id, user_id, name, price, num FROM tb_order WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗: %w", err)
	}
	return &o, nil
}
