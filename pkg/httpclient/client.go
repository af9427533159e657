package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/cloud-demo/pkg/metrics"
	"github.com/nao1215/cloud-demo/pkg/registry"
)

// DefaultTimeout はリクエスト全体のタイムアウト。
const DefaultTimeout = 30 * time.Second

// maxErrorBody はエラー時に保持するレスポンスボディの最大バイト数。
const maxErrorBody = 4096

// Client はサービス間通信用のHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。resolverを使う場合は空。
	baseURL string
	// serviceName はレジストリで解決する論理サービス名。
	serviceName string
	// resolver はサービス名を接続先アドレスに解決する。
	resolver registry.Resolver
}

// New は固定のベースURLに接続するクライアントを生成する。
// baseURLには接続先サービスのベースURL（例: "http://user-service:8081"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// NewWithResolver はリクエストごとにserviceNameをレジストリで解決するクライアントを生成する。
func NewWithResolver(serviceName string, resolver registry.Resolver) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		serviceName: serviceName,
		resolver:    resolver,
	}
}

// StatusError は2xx以外のレスポンスを表す。
type StatusError struct {
	// Method はリクエストのHTTPメソッド。
	Method string
	// URL はリクエスト先のURL。
	URL string
	// StatusCode はレスポンスのステータスコード。
	StatusCode int
	// Body はレスポンスボディの先頭部分。
	Body string
}

// Error はエラーメッセージを返す。
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: %s %s status=%d, body=%s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsStatus はerrが指定ステータスコードのStatusErrorかどうかを返す。
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// GetJSON は指定パスにGETリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// target はメトリクスのラベルに使う接続先名を返す。
func (c *Client) target() string {
	if c.serviceName != "" {
		return c.serviceName
	}
	return c.baseURL
}

// resolveBaseURL はリクエスト先のベースURLを決定する。
// レジストリが "host:port" を返した場合は http:// を補う。
func (c *Client) resolveBaseURL(ctx context.Context) (string, error) {
	if c.resolver == nil {
		return c.baseURL, nil
	}
	addr, err := c.resolver.Resolve(ctx, c.serviceName)
	if err != nil {
		return "", fmt.Errorf("サービス %q の名前解決に失敗: %w", c.serviceName, err)
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return strings.TrimSuffix(addr, "/"), nil
}

// doJSON はJSON形式のHTTPリクエストを実行する共通処理。
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	start := time.Now()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	baseURL, err := c.resolveBaseURL(ctx)
	if err != nil {
		metrics.ObserveOutbound(c.target(), metrics.OutcomeResolveError, time.Since(start))
		return err
	}

	url := baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setPropagatedHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveOutbound(c.target(), metrics.OutcomeTransportError, time.Since(start))
		return fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveOutbound(c.target(), metrics.OutcomeHTTPError, time.Since(start))
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	metrics.ObserveOutbound(c.target(), metrics.OutcomeSuccess, time.Since(start))

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}
