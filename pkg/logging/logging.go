// Package logging はzerologによる構造化ログの初期化を提供する。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ログのフィールド名。
const (
	// FieldService はサービス名のフィールド名。
	FieldService = "svc"
	// FieldRequestID はリクエストIDのフィールド名。
	FieldRequestID = "request_id"
)

// Config はログ出力の設定。
type Config struct {
	// Level はログレベル（debug, info, warn, error）。
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// Format は出力形式（json または console）。
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Setup はグローバルロガーを設定する。
// 不明なレベルは info として扱う。
func Setup(cfg Config) {
	SetupWriter(cfg, os.Stderr)
}

// SetupWriter は出力先を指定してグローバルロガーを設定する。
func SetupWriter(cfg Config, w io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// For はサービス名を付与したロガーを返す。
func For(service string) zerolog.Logger {
	return log.With().Str(FieldService, service).Logger()
}
