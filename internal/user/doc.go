// Package user はユーザーサービスを実装する。
//
// ユーザーIDによる参照と、設定された日時パターンでの現在時刻の整形を提供する。
// 起動時にRedisレジストリが設定されていれば、自身をレジストリに登録する。
//
// エンドポイント:
//   - GET /user/:id      ユーザー取得
//   - GET /user/nowTime  現在時刻（text/plain）
//   - GET /user/share    有効な日時パターン設定
//   - GET /health        ヘルスチェック
//   - GET /metrics       Prometheusメトリクス
package user
