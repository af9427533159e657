package user

// User はユーザー情報。
type User struct {
	// ID はユーザーの一意識別子。
	ID int64 `db:"id" json:"id"`
	// Name はユーザー名。
	Name string `db:"name" json:"name"`
	// Address は住所。
	Address string `db:"address" json:"address"`
}
