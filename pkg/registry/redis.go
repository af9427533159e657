package registry

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// keyPrefix はインスタンス一覧を保存するRedisキーの接頭辞。
const keyPrefix = "registry:"

// Redis はRedisのソート済みセットでインスタンスを管理するResolver。
// メンバーはアドレス、スコアは有効期限（UNIX秒）とし、期限切れのメンバーは解決対象外とする。
type Redis struct {
	// client はRedisクライアント。
	client redis.UniversalClient
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time

	mu       sync.Mutex
	counters map[string]uint64
}

// NewRedis は指定アドレスのRedisに接続するResolverを生成する。
func NewRedis(addr string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr}))
}

// NewRedisWithClient は既存のRedisクライアントからResolverを生成する。
func NewRedisWithClient(client redis.UniversalClient) *Redis {
	return &Redis{
		client:   client,
		now:      time.Now,
		counters: make(map[string]uint64),
	}
}

// Close はRedisクライアントを閉じる。
func (r *Redis) Close() error {
	return r.client.Close()
}

// Resolve は有効期限内のインスタンスからラウンドロビンで1つ選んで返す。
func (r *Redis) Resolve(ctx context.Context, name string) (string, error) {
	now := strconv.FormatInt(r.now().Unix(), 10)
	addrs, err := r.client.ZRangeByScore(ctx, keyPrefix+name, &redis.ZRangeBy{
		Min: "(" + now,
		Max: "+inf",
	}).Result()
	if err != nil {
		return "", fmt.Errorf("レジストリからのインスタンス取得に失敗: %w", err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	r.mu.Lock()
	n := r.counters[name]
	r.counters[name] = n + 1
	r.mu.Unlock()

	return addrs[n%uint64(len(addrs))], nil
}

// Register はインスタンスをttlの有効期間で登録する。
// 同時に期限切れのインスタンスを削除する。
func (r *Redis) Register(ctx context.Context, name, addr string, ttl time.Duration) error {
	now := r.now()
	key := keyPrefix + name

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Add(ttl).Unix()), Member: addr})
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Unix(), 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("インスタンスの登録に失敗: %w", err)
	}
	return nil
}

// Deregister はインスタンスの登録を解除する。
func (r *Redis) Deregister(ctx context.Context, name, addr string) error {
	if err := r.client.ZRem(ctx, keyPrefix+name, addr).Err(); err != nil {
		return fmt.Errorf("インスタンスの登録解除に失敗: %w", err)
	}
	return nil
}

// Heartbeat はインスタンスを登録し、ttlの1/3間隔で登録を更新し続ける。
// ctxが終了すると登録を解除して戻る。最初の登録に失敗した場合はエラーを返す。
func (r *Redis) Heartbeat(ctx context.Context, name, addr string, ttl time.Duration) error {
	if err := r.Register(ctx, name, addr, ttl); err != nil {
		return err
	}
	log.Info().Str("svc", name).Str("addr", addr).Msg("レジストリに登録しました")

	interval := ttl / 3
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// 停止時はキャンセルされていないコンテキストで登録を解除する
			dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := r.Deregister(dctx, name, addr); err != nil {
				log.Warn().Err(err).Str("svc", name).Msg("レジストリからの登録解除に失敗")
			}
			return nil
		case <-ticker.C:
			if err := r.Register(ctx, name, addr, ttl); err != nil {
				log.Warn().Err(err).Str("svc", name).Msg("レジストリの登録更新に失敗")
			}
		}
	}
}
