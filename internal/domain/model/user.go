package model

import "time"

// token_versionは失効のたびに+1されるだけ（減らない）
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	TokenVersion int       `json:"tokenVersion" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// 公開用（パスワードハッシュを含まない）
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
