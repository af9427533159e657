// 注文サービスのエントリポイント。
// 注文を取得し、レジストリで解決したユーザーサービスから注文者の情報を合成して返す。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/cloud-demo/internal/order"
	"github.com/nao1215/cloud-demo/pkg/config"
	"github.com/nao1215/cloud-demo/pkg/database"
	"github.com/nao1215/cloud-demo/pkg/httpclient"
	"github.com/nao1215/cloud-demo/pkg/logging"
	"github.com/nao1215/cloud-demo/pkg/registry"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := order.DefaultConfig()
	if err := config.Load("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗")
	}
	logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("データベース接続に失敗")
	}
	defer db.Close()

	if err := order.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("マイグレーションに失敗")
	}

	resolver, err := registry.New(cfg.Registry)
	if err != nil {
		log.Fatal().Err(err).Msg("レジストリの初期化に失敗")
	}
	if r, ok := resolver.(*registry.Redis); ok {
		defer r.Close()
	}

	users := order.NewUserClient(httpclient.NewWithResolver(cfg.UserServiceName, resolver))
	server := order.NewServer(cfg, order.NewService(order.NewStore(db), users))
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("注文サービスが異常終了しました")
		os.Exit(1)
	}
}
