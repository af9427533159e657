package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/cloud-demo/pkg/httpclient"
	"github.com/nao1215/cloud-demo/pkg/logging"
	"github.com/nao1215/cloud-demo/pkg/metrics"
	"github.com/nao1215/cloud-demo/pkg/middleware"
	"github.com/rs/zerolog"
)

// serviceName はログ・メトリクス・ヘルスチェックに使用するサービス名。
const serviceName = "order"

// shutdownTimeout はグレースフルシャットダウンの待機上限。
const shutdownTimeout = 10 * time.Second

// Getter はユーザー情報付きの注文を取得する。
type Getter interface {
	GetOrderByID(ctx context.Context, orderID int64) (*Order, error)
}

// Server は注文サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// orders は注文の取得元。
	orders Getter
	// logger はサービス名付きのロガー。
	logger zerolog.Logger
}

// NewServer は新しい注文サーバーを生成する。
func NewServer(cfg Config, orders Getter) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(metrics.Middleware(serviceName))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.AllowedOrigins))
	}

	s := &Server{
		router: router,
		port:   cfg.Port,
		orders: orders,
		logger: logging.For(serviceName),
	}
	s.setupRoutes(cfg.JWTSecret)
	return s
}

// Handler はサーバーのHTTPハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxが終了するとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("注文サービスを起動します")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("シャットダウンに失敗: %w", err)
	}
	s.logger.Info().Msg("注文サービスを停止しました")
	return nil
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes(jwtSecret string) {
	orders := s.router.Group("/order")
	if jwtSecret != "" {
		orders.Use(middleware.JWTAuth(jwtSecret))
	}
	{
		// ユーザー情報付きの注文取得
		orders.GET("/:orderId", s.handleGetByID())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})
	s.router.GET("/metrics", metrics.Handler())
}

// handleGetByID は注文を取得し、注文者のユーザー情報を付与して返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "注文IDが不正です"})
			return
		}

		// 受信リクエストが中断されてもユーザーサービスの呼び出しは継続する
		ctx := context.WithoutCancel(c.Request.Context())
		ctx = httpclient.WithRequestID(ctx, middleware.GetRequestID(c))
		ctx = httpclient.WithUserID(ctx, middleware.GetUserID(c))
		ctx = httpclient.WithAuthorization(ctx, c.GetHeader("Authorization"))

		o, err := s.orders.GetOrderByID(ctx, orderID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, o)
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "注文が見つかりません"})
		case errors.Is(err, ErrUserNotFound):
			s.logWarn(c, orderID, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "注文者のユーザーが見つかりません"})
		case errors.Is(err, ErrRemoteCall):
			s.logError(c, orderID, err, "ユーザーサービスの呼び出しに失敗")
			c.JSON(http.StatusBadGateway, gin.H{"error": "ユーザーサービスの呼び出しに失敗しました"})
		default:
			s.logError(c, orderID, err, "注文の取得に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "注文の取得に失敗しました"})
		}
	}
}

func (s *Server) logWarn(c *gin.Context, orderID int64, err error) {
	s.logger.Warn().Err(err).Int64("order_id", orderID).
		Str(logging.FieldRequestID, middleware.GetRequestID(c)).
		Msg("注文者のユーザーが存在しません")
}

func (s *Server) logError(c *gin.Context, orderID int64, err error, msg string) {
	s.logger.Error().Err(err).Int64("order_id", orderID).
		Str(logging.FieldRequestID, middleware.GetRequestID(c)).
		Msg(msg)
}
