package order

// Order は注文情報。
type Order struct {
	// ID は注文の一意識別子。
	ID int64 `db:"id" json:"id"`
	// UserID は注文者のユーザーID。
	UserID int64 `db:"user_id" json:"userId"`
	// Name は商品名。
	Name string `db:"name" json:"name"`
	// Price は価格（最小通貨単位）。
	Price int64 `db:"price" json:"price"`
	// Num は数量。
	Num int `db:"num" json:"num"`
	// User は注文者のユーザー情報。合成前はnil。
	User *User `db:"-" json:"user,omitempty"`
}

// User はユーザーサービスから取得したユーザー情報。
type User struct {
	// ID はユーザーの一意識別子。
	ID int64 `json:"id"`
	// Name はユーザー名。
	Name string `json:"name"`
	// Address は住所。
	Address string `json:"address"`
}
