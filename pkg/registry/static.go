package registry

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Static は固定のアドレス一覧でサービス名を解決するResolver。
// 同一サービスに複数のアドレスがある場合はラウンドロビンで選択する。
type Static struct {
	// services はサービス名ごとのアドレス一覧。生成後は変更しない。
	services map[string][]string
	// counters はサービス名ごとのラウンドロビン用カウンタ。
	counters map[string]*atomic.Uint64
}

// NewStatic はサービス名とアドレス一覧からStaticを生成する。
func NewStatic(services map[string][]string) *Static {
	s := &Static{
		services: make(map[string][]string, len(services)),
		counters: make(map[string]*atomic.Uint64, len(services)),
	}
	for name, addrs := range services {
		if len(addrs) == 0 {
			continue
		}
		s.services[name] = append([]string(nil), addrs...)
		s.counters[name] = new(atomic.Uint64)
	}
	return s
}

// staticFile はレジストリファイルのYAML構造。
type staticFile struct {
	Services map[string][]string `yaml:"services"`
}

// LoadStaticFile はYAMLファイルからStaticを生成する。
//
//	services:
//	  user-service:
//	    - http://10.0.0.5:8081
//	    - http://10.0.0.6:8081
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("レジストリファイルの読み込みに失敗: %w", err)
	}
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("レジストリファイルの解析に失敗: %w", err)
	}
	return NewStatic(f.Services), nil
}

// Resolve はサービス名に対応するアドレスを返す。
func (s *Static) Resolve(_ context.Context, name string) (string, error) {
	addrs, ok := s.services[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	n := s.counters[name].Add(1) - 1
	return addrs[n%uint64(len(addrs))], nil
}
