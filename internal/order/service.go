package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nao1215/cloud-demo/pkg/httpclient"
)

var (
	// ErrOrderNotFound は注文が存在しないことを表す。
	ErrOrderNotFound = errors.New("注文が見つかりません")
	// ErrUserNotFound は注文者のユーザーがユーザーサービスに存在しないことを表す。
	ErrUserNotFound = errors.New("注文者のユーザーが見つかりません")
	// ErrRemoteCall はユーザーサービスの呼び出しに失敗したことを表す。
	ErrRemoteCall = errors.New("ユーザーサービスの呼び出しに失敗しました")
)

// OrderFinder はIDで注文を取得する。
type OrderFinder interface {
	FindByID(ctx context.Context, id int64) (*Order, error)
}

// UserFinder はIDでユーザーを取得する。
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*User, error)
}

// Service は注文とユーザー情報を合成する。
type Service struct {
	orders OrderFinder
	users  UserFinder
}

// NewService は新しいServiceを生成する。
func NewService(orders OrderFinder, users UserFinder) *Service {
	return &Service{orders: orders, users: users}
}

// GetOrderByID は注文を取得し、注文者のユーザー情報を付与して返す。
// 注文が存在しない場合はユーザーサービスを呼び出さない。
// いずれかの取得に失敗した場合、部分的な注文は返さない。
// 注文者のIDと異なるユーザーが返された場合も呼び出し失敗として扱う。
func (s *Service) GetOrderByID(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, o.UserID)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: user_id=%d", ErrUserNotFound, o.UserID)
		}
		return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	// 空のレスポンスや別ユーザーの情報は合成しない
	if u == nil || u.ID != o.UserID {
		got := int64(0)
		if u != nil {
			got = u.ID
		}
		return nil, fmt.Errorf("%w: user_id=%d に対して user_id=%d が返されました", ErrRemoteCall, o.UserID, got)
	}

	o.User = u
	return o, nil
}
