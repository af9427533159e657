// Package registry はサービス名からネットワークアドレスを解決するレジストリクライアントを提供する。
//
// レジストリ自体は外部のインフラとして扱い、このパッケージはその利用側のみを実装する。
//   - Static: 設定ファイルや環境変数で与えた固定のアドレス一覧
//   - Redis: 各インスタンスが有効期限付きで自己登録するRedis上の一覧
//
// どちらも Resolver を満たし、httpclient.NewWithResolver に渡して使用する。
package registry
