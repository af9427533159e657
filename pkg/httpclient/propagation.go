package httpclient

import (
	"context"
	"net/http"
)

// contextKey はコンテキストキーの型。
type contextKey string

const (
	// contextKeyUserID はコンテキストにユーザーIDを格納するためのキー。
	contextKeyUserID contextKey = "user_id"
	// contextKeyRequestID はコンテキストにリクエストIDを格納するためのキー。
	contextKeyRequestID contextKey = "request_id"
	// contextKeyAuthorization はコンテキストにAuthorizationヘッダー値を格納するためのキー。
	contextKeyAuthorization contextKey = "authorization"
)

// WithUserID はコンテキストにユーザーIDを設定する。
// 送信時に X-User-ID ヘッダーとして伝播する。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}

// WithRequestID はコンテキストにリクエストIDを設定する。
// 送信時に X-Request-ID ヘッダーとして伝播する。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// WithAuthorization はコンテキストにAuthorizationヘッダー値（例: "Bearer xxx"）を設定する。
func WithAuthorization(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, contextKeyAuthorization, value)
}

// setPropagatedHeaders はコンテキストに設定された値をリクエストヘッダーに設定する。
// ユーザーIDは空文字列でも設定し、リクエストIDとAuthorizationは空なら設定しない。
func setPropagatedHeaders(ctx context.Context, req *http.Request) {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		req.Header.Set("X-User-ID", userID)
	}
	if requestID, ok := ctx.Value(contextKeyRequestID).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if auth, ok := ctx.Value(contextKeyAuthorization).(string); ok && auth != "" {
		req.Header.Set("Authorization", auth)
	}
}
