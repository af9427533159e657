// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// 接続先は固定のベースURL、またはレジストリで解決する論理サービス名で指定する。
// order-serviceからuser-serviceへのユーザー取得など、
// サービス間の通信パターンを統一する。
package httpclient
