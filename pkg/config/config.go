// Package config はサービス設定の読み込みを提供する。
//
// 設定は次の順で重ね合わせる。後に読み込んだものが優先される。
//  1. 呼び出し側が用意したデフォルト値
//  2. YAMLファイル（CONFIG_FILE、または引数で指定したパス）
//  3. 環境変数（.env ファイルがあれば事前に読み込む）
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile は設定ファイルのパスを指定する環境変数名。
const EnvConfigFile = "CONFIG_FILE"

// Load はtargetに設定を読み込む。targetはデフォルト値を設定済みの構造体ポインタとする。
// pathが空の場合はCONFIG_FILE環境変数を参照し、それも空ならファイルは読み込まない。
// カレントディレクトリの .env は存在する場合のみ読み込み、既存の環境変数は上書きしない。
func Load(path string, target any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(".envファイルの読み込みに失敗: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := LoadFile(path, target); err != nil {
			return err
		}
	}

	// 対象の環境変数が1つも無い場合はエラーにしない
	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}
	return nil
}

// LoadFile はYAMLファイルの内容をtargetに読み込む。
// ファイルに無いキーはtargetの既存の値を保持する。
func LoadFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗: %w", err)
	}
	return nil
}
