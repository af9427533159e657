// Package datefmt は "yyyy-MM-dd HH:mm:ss" 形式の日付パターンで時刻を整形する。
//
// 設定ファイルの pattern.dateformat に書かれたパターンをそのまま解釈するために使用する。
// パターン文字の繰り返し数で桁数や表記（数値/短縮名/完全名）が決まり、
// シングルクォートで囲んだ部分はリテラルとして出力される。
// 未定義の英字や閉じられていないクォートは PatternError になる。
//
// 週番号（w, W）と週年（Y）は日曜始まりで、1月1日を含む週を第1週とする。
// 名称はロケールに依存せず英語で出力する。
// "zzzz" は完全なタイムゾーン名ではなく time.Location の名前（"UTC", "Asia/Tokyo" など）を出力する。
package datefmt
