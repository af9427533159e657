// Package order は注文サービスを実装する。
//
// 注文をIDで取得し、注文者のユーザー情報をユーザーサービスから取得して合成する。
// ユーザーサービスの接続先はサービスレジストリで解決する。
// ユーザー情報が取得できない場合、代替のユーザーは補わずにエラーとする。
//
// エンドポイント:
//   - GET /order/:orderId  ユーザー情報付きの注文取得
//   - GET /health          ヘルスチェック
//   - GET /metrics         Prometheusメトリクス
package order
