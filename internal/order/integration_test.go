package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/cloud-demo/internal/user"
	"github.com/nao1215/cloud-demo/pkg/database"
	"github.com/nao1215/cloud-demo/pkg/httpclient"
	"github.com/nao1215/cloud-demo/pkg/middleware"
	"github.com/nao1215/cloud-demo/pkg/registry"
)

// testEnv は注文サービスとユーザーサービスを結合したテスト環境。
type testEnv struct {
	order     *Server
	userCalls *atomic.Int32
	gotAuth   *atomic.Value
}

// setupIntegration は実際のユーザーサーバーをhttptestで起動し、
// static レジストリ経由で注文サーバーから呼び出す環境を構築する。
func setupIntegration(t *testing.T, jwtSecret string) *testEnv {
	t.Helper()
	ctx := context.Background()

	userDB, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("ユーザーDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { userDB.Close() })
	if err := user.Migrate(ctx, userDB); err != nil {
		t.Fatalf("ユーザーDBのマイグレーションに失敗: %v", err)
	}
	if _, err := userDB.Exec("INSERT INTO tb_user (id, name, address) VALUES (101, 'Alice', 'Tokyo')"); err != nil {
		t.Fatalf("テストユーザーの挿入に失敗: %v", err)
	}

	userCfg := user.DefaultConfig()
	userCfg.JWTSecret = jwtSecret
	userSrv := user.NewServer(userCfg, user.NewStore(userDB))

	env := &testEnv{userCalls: &atomic.Int32{}, gotAuth: &atomic.Value{}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.userCalls.Add(1)
		env.gotAuth.Store(r.Header.Get("Authorization"))
		userSrv.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	orderDB := setupTestDB(t)
	if _, err := orderDB.Exec("INSERT INTO tb_order (id, user_id, name, price, num) VALUES (1, 101, 'Book', 1500, 1), (2, 999, 'Pen', 200, 3)"); err != nil {
		t.Fatalf("テスト注文の挿入に失敗: %v", err)
	}

	resolver := registry.NewStatic(map[string][]string{"user-service": {ts.URL}})
	users := NewUserClient(httpclient.NewWithResolver("user-service", resolver))

	orderCfg := DefaultConfig()
	orderCfg.JWTSecret = jwtSecret
	env.order = NewServer(orderCfg, NewService(NewStore(orderDB), users))
	return env
}

// TestIntegration_GetOrder はサービス間の合成を検証する。
func TestIntegration_GetOrder(t *testing.T) {
	t.Parallel()

	t.Run("注文1にユーザー101が合成されること", func(t *testing.T) {
		t.Parallel()

		env := setupIntegration(t, "")
		w := doRequest(env.order, http.MethodGet, "/order/1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
		}

		var got Order
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if got.ID != 1 || got.UserID != 101 {
			t.Errorf("注文 = %+v", got)
		}
		if got.User == nil || *got.User != (User{ID: 101, Name: "Alice", Address: "Tokyo"}) {
			t.Errorf("ユーザー = %+v", got.User)
		}
		if n := env.userCalls.Load(); n != 1 {
			t.Errorf("ユーザーサービスの呼び出し回数 = %d, want 1", n)
		}
	})

	t.Run("注文2のユーザー999が存在しない場合は404が返ること", func(t *testing.T) {
		t.Parallel()

		env := setupIntegration(t, "")
		w := doRequest(env.order, http.MethodGet, "/order/2", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusNotFound)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if _, ok := body["user"]; ok {
			t.Errorf("部分的な注文が返った: %s", w.Body.String())
		}
	})

	t.Run("存在しない注文ではユーザーサービスが呼ばれないこと", func(t *testing.T) {
		t.Parallel()

		env := setupIntegration(t, "")
		w := doRequest(env.order, http.MethodGet, "/order/3", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusNotFound)
		}
		if n := env.userCalls.Load(); n != 0 {
			t.Errorf("ユーザーサービスの呼び出し回数 = %d, want 0", n)
		}
	})

	t.Run("JWTが有効な場合はAuthorizationヘッダーが転送されること", func(t *testing.T) {
		t.Parallel()

		const secret = "test-secret-key"
		env := setupIntegration(t, secret)
		token, err := middleware.GenerateJWT(secret, "u-1", time.Hour)
		if err != nil {
			t.Fatalf("トークン生成に失敗: %v", err)
		}

		w := doRequest(env.order, http.MethodGet, "/order/1", http.Header{"Authorization": {"Bearer " + token}})
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
		}
		if got, _ := env.gotAuth.Load().(string); got != "Bearer "+token {
			t.Errorf("転送されたAuthorization = %q", got)
		}
	})

	t.Run("ユーザーサービスが注文者以外の内容を200で返した場合は502が返ること", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{`null`, `{}`, `{"id":7,"name":"Mallory"}`} {
			body := body
			t.Run(body, func(t *testing.T) {
				t.Parallel()

				ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte(body))
				}))
				t.Cleanup(ts.Close)

				resolver := registry.NewStatic(map[string][]string{"user-service": {ts.URL}})
				users := NewUserClient(httpclient.NewWithResolver("user-service", resolver))
				s := NewServer(DefaultConfig(), NewService(NewStore(setupTestDB(t)), users))

				w := doRequest(s, http.MethodGet, "/order/101", nil)
				if w.Code != http.StatusBadGateway {
					t.Errorf("ステータスコード = %d, want %d, body = %s", w.Code, http.StatusBadGateway, w.Body.String())
				}
			})
		}
	})

	t.Run("ユーザーサービスに接続できない場合は502が返ること", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		resolver := registry.NewStatic(map[string][]string{"user-service": {closed.URL}})
		users := NewUserClient(httpclient.NewWithResolver("user-service", resolver))
		s := NewServer(DefaultConfig(), NewService(NewStore(setupTestDB(t)), users))

		w := doRequest(s, http.MethodGet, "/order/101", nil)
		if w.Code != http.StatusBadGateway {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})

	t.Run("レジストリにユーザーサービスが無い場合は502が返ること", func(t *testing.T) {
		t.Parallel()

		users := NewUserClient(httpclient.NewWithResolver("user-service", registry.NewStatic(nil)))
		s := NewServer(DefaultConfig(), NewService(NewStore(setupTestDB(t)), users))

		w := doRequest(s, http.MethodGet, "/order/101", nil)
		if w.Code != http.StatusBadGateway {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})
}
