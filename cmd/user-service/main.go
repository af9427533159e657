// ユーザーサービスのエントリポイント。
// ユーザー参照と日時パターンでの現在時刻の整形を提供する。
// Redisレジストリが設定されていれば、稼働中は自身をレジストリに登録し続ける。
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nao1215/cloud-demo/internal/user"
	"github.com/nao1215/cloud-demo/pkg/config"
	"github.com/nao1215/cloud-demo/pkg/database"
	"github.com/nao1215/cloud-demo/pkg/logging"
	"github.com/nao1215/cloud-demo/pkg/registry"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := user.DefaultConfig()
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

	if err := user.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("マイグレーションに失敗")
	}

	var wg sync.WaitGroup
	if cfg.Registry.Kind == registry.KindRedis && cfg.AdvertiseAddr != "" {
		resolver, err := registry.New(cfg.Registry)
		if err != nil {
			log.Fatal().Err(err).Msg("レジストリの初期化に失敗")
		}
		reg := resolver.(*registry.Redis)
		defer reg.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Heartbeat(ctx, cfg.ServiceName, cfg.AdvertiseAddr, cfg.Registry.TTL); err != nil {
				log.Error().Err(err).Msg("レジストリへの登録に失敗")
			}
		}()
	}

	server := user.NewServer(cfg, user.NewStore(db))
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("ユーザーサービスが異常終了しました")
		stop()
		wg.Wait()
		os.Exit(1)
	}
	wg.Wait()
}
