// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordにはSHA-512の16進ダイジェストのみを保持し、平文は保持しない。
// APIレスポンスに載せる前に必ずClearPasswordを呼ぶこと。
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	DisplayName  string    `json:"displayName"`
	EmployeeCode string    `json:"employeeCode"`
	Admin        bool      `json:"admin"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
}

// ClearPassword はAPIレスポンス用にパスワードダイジェストを消去する。
func (u *User) ClearPassword() {
	u.Password = ""
}

// PasswordLog はパスワード設定のたびに追記される監査レコードを表す。
// アプリケーションから更新・削除されることはない。
type PasswordLog struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	DisplayName string    `json:"displayName"`
	Created     time.Time `json:"created"`
}
