package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/cloud-demo/pkg/datefmt"
	"github.com/nao1215/cloud-demo/pkg/logging"
	"github.com/nao1215/cloud-demo/pkg/metrics"
	"github.com/nao1215/cloud-demo/pkg/middleware"
	"github.com/rs/zerolog"
)

// serviceName はログ・メトリクス・ヘルスチェックに使用するサービス名。
const serviceName = "user"

// shutdownTimeout はグレースフルシャットダウンの待機上限。
const shutdownTimeout = 10 * time.Second

// Finder はIDでユーザーを取得する。
type Finder interface {
	FindByID(ctx context.Context, id int64) (*User, error)
}

// Server はユーザーサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// users はユーザーの取得元。
	users Finder
	// pattern は /user/nowTime と /user/share が参照する日時パターン設定。
	pattern PatternProperties
	// now は現在時刻を返す。テストで差し替える。
	now func() time.Time
	// logger はサービス名付きのロガー。
	logger zerolog.Logger
}

// NewServer は新しいユーザーサーバーを生成する。
func NewServer(cfg Config, users Finder) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(metrics.Middleware(serviceName))

	s := &Server{
		router:  router,
		port:    cfg.Port,
		users:   users,
		pattern: cfg.Pattern,
		now:     time.Now,
		logger:  logging.For(serviceName),
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
		s.logger.Info().Str("addr", srv.Addr).Msg("ユーザーサービスを起動します")
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
	s.logger.Info().Msg("ユーザーサービスを停止しました")
	return nil
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes(jwtSecret string) {
	users := s.router.Group("/user")
	if jwtSecret != "" {
		users.Use(middleware.JWTAuth(jwtSecret))
	}
	{
		// 現在時刻（静的ルートは :id より優先される）
		users.GET("/nowTime", s.handleNowTime())
		// 日時パターン設定
		users.GET("/share", s.handleShare())
		// ユーザー取得
		users.GET("/:id", s.handleGetByID())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})
	s.router.GET("/metrics", metrics.Handler())
}

// handleGetByID はIDでユーザーを取得する。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ユーザーIDが不正です"})
			return
		}

		u, err := s.users.FindByID(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
			return
		}
		if err != nil {
			s.logger.Error().Err(err).Int64("user_id", id).
				Str(logging.FieldRequestID, middleware.GetRequestID(c)).
				Msg("ユーザーの取得に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, u)
	}
}

// handleNowTime は現在時刻を設定された日時パターンで整形して返す。
// パターンはリクエストごとに解釈するため、不正なパターンはここで500になる。
func (s *Server) handleNowTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		formatted, err := datefmt.Format(s.pattern.DateFormat, s.now())
		if err != nil {
			s.logger.Error().Err(err).Str("pattern", s.pattern.DateFormat).Msg("日時の整形に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.String(http.StatusOK, formatted)
	}
}

// handleShare は有効な日時パターン設定を返す。
func (s *Server) handleShare() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.pattern)
	}
}
