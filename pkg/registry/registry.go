package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrServiceNotFound は指定されたサービス名の稼働中インスタンスが存在しないことを表す。
var ErrServiceNotFound = errors.New("サービスが見つかりません")

// Resolver は論理サービス名を接続先アドレスに解決する。
type Resolver interface {
	// Resolve はサービス名に対応するアドレス（例: "http://10.0.0.5:8081"）を返す。
	Resolve(ctx context.Context, name string) (string, error)
}

// Kind はレジストリのバックエンド種別。
type Kind string

const (
	// KindStatic は固定のアドレス一覧を使用する。
	KindStatic Kind = "static"
	// KindRedis はRedisに登録されたインスタンスを使用する。
	KindRedis Kind = "redis"
)

// Config はレジストリの設定。
type Config struct {
	// Kind はバックエンド種別。空の場合は static として扱う。
	Kind Kind `yaml:"kind" env:"REGISTRY_KIND"`
	// Services は static 用のサービス名とアドレス一覧。
	Services map[string][]string `yaml:"services"`
	// Entries は環境変数から与える "name=addr" 形式の static エントリ（";" 区切り）。
	Entries []string `yaml:"entries" env:"REGISTRY_STATIC"`
	// RedisAddr は redis 用の接続先アドレス。
	RedisAddr string `yaml:"redis_addr" env:"REGISTRY_REDIS_ADDR"`
	// TTL は redis に登録したインスタンスの有効期間。
	TTL time.Duration `yaml:"ttl" env:"REGISTRY_TTL"`
}

// New は設定に従ってResolverを生成する。
// redis の場合は *Redis を返すため、型アサーションで自己登録に使用できる。
func New(cfg Config) (Resolver, error) {
	switch cfg.Kind {
	case "", KindStatic:
		services, err := mergeEntries(cfg.Services, cfg.Entries)
		if err != nil {
			return nil, err
		}
		return NewStatic(services), nil
	case KindRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("redisレジストリには接続先アドレスが必要です")
		}
		return NewRedis(cfg.RedisAddr), nil
	default:
		return nil, fmt.Errorf("未対応のレジストリ種別です: %q", cfg.Kind)
	}
}

// mergeEntries は "name=addr" 形式のエントリをサービス一覧に追加する。
func mergeEntries(services map[string][]string, entries []string) (map[string][]string, error) {
	merged := make(map[string][]string, len(services)+len(entries))
	for name, addrs := range services {
		merged[name] = append([]string(nil), addrs...)
	}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		name, addr, ok := strings.Cut(e, "=")
		if !ok || name == "" || addr == "" {
			return nil, fmt.Errorf("レジストリのエントリ形式が不正です: %q", e)
		}
		merged[name] = append(merged[name], addr)
	}
	return merged, nil
}
