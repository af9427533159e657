package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// PatternError は日付パターンの解析エラーを表す。
type PatternError struct {
	// Pattern は解析対象のパターン文字列。
	Pattern string
	// Pos はエラーが見つかったバイト位置。
	Pos int
	// Reason はエラーの理由。
	Reason string
}

// Error はエラーメッセージを返す。
func (e *PatternError) Error() string {
	return fmt.Sprintf("日付パターンが不正です: %q (位置 %d): %s", e.Pattern, e.Pos, e.Reason)
}

// supportedLetters はパターン文字として解釈する英字の集合。
const supportedLetters = "GyYMLwWDdFEuaHkKhmsSzZX"

// token はパターンを分解した1要素。
// letter が0の場合は literal をそのまま出力する。
type token struct {
	letter  byte
	count   int
	literal string
}

// Layout はコンパイル済みの日付パターン。
// 生成後は不変であり、複数のゴルーチンから同時に使用できる。
type Layout struct {
	pattern string
	tokens  []token
}

// Compile は日付パターンを解析してLayoutを生成する。
func Compile(pattern string) (*Layout, error) {
	var (
		tokens  []token
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			// '' は単独のシングルクォートを表す
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				literal.WriteByte('\'')
				i += 2
				continue
			}
			end, text, ok := readQuoted(pattern, i+1)
			if !ok {
				return nil, &PatternError{Pattern: pattern, Pos: i, Reason: "クォートが閉じられていません"}
			}
			literal.WriteString(text)
			i = end
		case isASCIILetter(c):
			if strings.IndexByte(supportedLetters, c) < 0 {
				return nil, &PatternError{Pattern: pattern, Pos: i, Reason: fmt.Sprintf("未定義のパターン文字 '%c'", c)}
			}
			n := 1
			for i+n < len(pattern) && pattern[i+n] == c {
				n++
			}
			if c == 'X' && n > 3 {
				return nil, &PatternError{Pattern: pattern, Pos: i, Reason: "'X' は3文字までです"}
			}
			flush()
			tokens = append(tokens, token{letter: c, count: n})
			i += n
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()

	return &Layout{pattern: pattern, tokens: tokens}, nil
}

// MustCompile はCompileと同じだが、エラー時にパニックする。
// パッケージ変数の初期化など、パターンが固定の場合に使用する。
func MustCompile(pattern string) *Layout {
	l, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return l
}

// Format はパターンをコンパイルして時刻を整形する。
func Format(pattern string, t time.Time) (string, error) {
	l, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return l.Format(t), nil
}

// String は元のパターン文字列を返す。
func (l *Layout) String() string {
	return l.pattern
}

// Format は時刻をパターンに従って整形する。
func (l *Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, tk := range l.tokens {
		if tk.letter == 0 {
			b.WriteString(tk.literal)
			continue
		}
		b.WriteString(formatField(tk.letter, tk.count, t))
	}
	return b.String()
}

// readQuoted は開きクォートの直後から閉じクォートまでを読み取る。
// 戻り値は閉じクォートの次の位置とリテラル文字列。
func readQuoted(pattern string, start int) (int, string, bool) {
	var b strings.Builder
	for i := start; i < len(pattern); i++ {
		if pattern[i] != '\'' {
			b.WriteByte(pattern[i])
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return i + 1, b.String(), true
	}
	return 0, "", false
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// formatField は1つのパターン文字を整形する。
func formatField(letter byte, count int, t time.Time) string {
	switch letter {
	case 'G':
		if t.Year() > 0 {
			return "AD"
		}
		return "BC"
	case 'y':
		return formatYear(t.Year(), count)
	case 'Y':
		year, _ := weekOfYear(t)
		return formatYear(year, count)
	case 'M', 'L':
		return formatMonth(t.Month(), count)
	case 'w':
		_, week := weekOfYear(t)
		return pad(week, count)
	case 'W':
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return pad((t.Day()+int(first.Weekday())-1)/7+1, count)
	case 'D':
		return pad(t.YearDay(), count)
	case 'd':
		return pad(t.Day(), count)
	case 'F':
		return pad((t.Day()-1)/7+1, count)
	case 'E':
		name := t.Weekday().String()
		if count < 4 {
			return name[:3]
		}
		return name
	case 'u':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return pad(wd, count)
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'H':
		return pad(t.Hour(), count)
	case 'k':
		h := t.Hour()
		if h == 0 {
			h = 24
		}
		return pad(h, count)
	case 'K':
		return pad(t.Hour()%12, count)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, count)
	case 'm':
		return pad(t.Minute(), count)
	case 's':
		return pad(t.Second(), count)
	case 'S':
		return pad(t.Nanosecond()/int(time.Millisecond), count)
	case 'z':
		if count < 4 {
			return t.Format("MST")
		}
		// 完全なタイムゾーン名の代わりにIANA名（例: Asia/Tokyo）を出力する
		return t.Location().String()
	case 'Z':
		return t.Format("-0700")
	case 'X':
		switch count {
		case 1:
			return t.Format("Z07")
		case 2:
			return t.Format("Z0700")
		default:
			return t.Format("Z07:00")
		}
	}
	return ""
}

// formatYear は年を整形する。"yy" は下2桁、それ以外は繰り返し数を最小桁数とする。
func formatYear(year, count int) string {
	if count == 2 {
		return pad(((year%100)+100)%100, 2)
	}
	return pad(year, count)
}

// formatMonth は月を整形する。3文字で短縮名、4文字以上で完全名になる。
func formatMonth(m time.Month, count int) string {
	switch {
	case count >= 4:
		return m.String()
	case count == 3:
		return m.String()[:3]
	default:
		return pad(int(m), count)
	}
}

// weekOfYear は日曜始まりの週で数えた週番号と、その週が属する年を返す。
// 1月1日を含む週を第1週とするため、年末の数日は翌年の第1週になる。
func weekOfYear(t time.Time) (year, week int) {
	saturday := t.AddDate(0, 0, 6-int(t.Weekday()))
	if saturday.Year() > t.Year() {
		return saturday.Year(), 1
	}
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return t.Year(), (t.YearDay()-1+int(jan1.Weekday()))/7 + 1
}

// pad は数値を最小桁数までゼロ埋めする。
func pad(n, width int) string {
	if n < 0 {
		return "-" + pad(-n, width)
	}
	return fmt.Sprintf("%0*d", width, n)
}
