package order

import (
	"context"
	"fmt"

	"github.com/nao1215/cloud-demo/pkg/httpclient"
)

// UserClient はユーザーサービスのHTTPクライアント。
type UserClient struct {
	client *httpclient.Client
}

// NewUserClient は新しいUserClientを生成する。
// clientにはレジストリ解決モードのクライアントを渡す想定。
func NewUserClient(client *httpclient.Client) *UserClient {
	return &UserClient{client: client}
}

// FindByID は GET /user/{id} でユーザーを取得する。
func (c *UserClient) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.client.GetJSON(ctx, fmt.Sprintf("/user/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
