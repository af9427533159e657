package order

import (
	"github.com/nao1215/cloud-demo/pkg/database"
	"github.com/nao1215/cloud-demo/pkg/logging"
	"github.com/nao1215/cloud-demo/pkg/registry"
)

// Config は注文サービスの設定。
type Config struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"PORT"`
	// UserServiceName はレジストリで解決するユーザーサービスの論理名。
	UserServiceName string `yaml:"user_service_name" env:"USER_SERVICE_NAME"`
	// JWTSecret が設定されている場合、/order 配下にJWT認証を適用する。
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	// AllowedOrigins はCORSで許可するオリジン（環境変数では ";" 区切り）。空の場合はCORSを適用しない。
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	// DB はデータベース接続の設定。
	DB database.Config `yaml:"db"`
	// Registry はサービスレジストリの設定。
	Registry registry.Config `yaml:"registry"`
	// Log はログ出力の設定。
	Log logging.Config `yaml:"log"`
}

// DefaultConfig はデフォルト設定を返す。
// static レジストリはローカルのユーザーサービスを指す。
func DefaultConfig() Config {
	return Config{
		Port:            "8080",
		UserServiceName: "user-service",
		DB: database.Config{
			Driver: database.DriverSQLite,
			DSN:    "file:order.db?_pragma=busy_timeout(5000)",
		},
		Registry: registry.Config{
			Kind: registry.KindStatic,
			Services: map[string][]string{
				"user-service": {"http://localhost:8081"},
			},
		},
		Log: logging.Config{Level: "info", Format: "json"},
	}
}
