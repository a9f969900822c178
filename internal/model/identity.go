package model

import "time"

// Identity は名前と所有者ID(数値)の対応を表します
type Identity struct {
	ID        uint      `gorm:"primaryKey" json:"owner_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Identity) TableName() string {
	return "identities"
}

type ContextKey string

const (
	OwnerIDKey ContextKey = "ownerID"
)

// LoginRequest はログインAPIのリクエストボディ
type LoginRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// LoginResponse はログイン成功時のレスポンス
type LoginResponse struct {
	OwnerID     uint   `json:"owner_id"`
	Name        string `json:"name"`
	Created     bool   `json:"created"`
	AccessToken string `json:"access_token,omitempty"`
}
