package user

import (
	"time"

	"github.com/nao1215/cloud-demo/pkg/database"
	"github.com/nao1215/cloud-demo/pkg/logging"
	"github.com/nao1215/cloud-demo/pkg/registry"
)

// DefaultServiceName はレジストリに登録するサービス名。
const DefaultServiceName = "user-service"

// PatternProperties は日時パターンの設定。
type PatternProperties struct {
	// DateFormat は /user/nowTime で使用する日時パターン（例: "yyyy-MM-dd HH:mm:ss"）。
	DateFormat string `yaml:"dateformat" json:"dateformat" env:"PATTERN_DATEFORMAT"`
}

// Config はユーザーサービスの設定。
type Config struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"PORT"`
	// ServiceName はレジストリに登録するサービス名。
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	// AdvertiseAddr はレジストリに登録する自身のアドレス。空の場合は登録しない。
	AdvertiseAddr string `yaml:"advertise_addr" env:"ADVERTISE_ADDR"`
	// JWTSecret が設定されている場合、/user 配下にJWT認証を適用する。
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	// DB はデータベース接続の設定。
	DB database.Config `yaml:"db"`
	// Pattern は日時パターンの設定。
	Pattern PatternProperties `yaml:"pattern"`
	// Registry はサービスレジストリの設定。
	Registry registry.Config `yaml:"registry"`
	// Log はログ出力の設定。
	Log logging.Config `yaml:"log"`
}

// DefaultConfig はデフォルト設定を返す。
func DefaultConfig() Config {
	return Config{
		Port:        "8081",
		ServiceName: DefaultServiceName,
		DB: database.Config{
			Driver: database.DriverSQLite,
			DSN:    "file:user.db?_pragma=busy_timeout(5000)",
		},
		Pattern: PatternProperties{DateFormat: "yyyy-MM-dd HH:mm:ss"},
		Registry: registry.Config{
			Kind: registry.KindStatic,
			TTL:  15 * time.Second,
		},
		Log: logging.Config{Level: "info", Format: "json"},
	}
}
