// internal/model/vocabulary.go
package model

import "time"

// 形態素グループ (表示順の決定にのみ使う)
const (
	PrefixPre  = "pre-"
	PrefixUn   = "un-"
	SuffixTion = "-tion"
	SuffixAble = "-able"
)

// Vocabulary は所有者ごとの単語エントリ
type Vocabulary struct {
	ID          uint      `gorm:"primaryKey" json:"vocab_id"`
	OwnerID     uint      `gorm:"not null;index;uniqueIndex:uq_owner_english,priority:1" json:"-"`
	Prefix      string    `gorm:"type:varchar(10);not null;default:''" json:"prefix"`
	Suffix      string    `gorm:"type:varchar(10);not null;default:''" json:"suffix"`
	English     string    `gorm:"not null;uniqueIndex:uq_owner_english,priority:2" json:"english"`
	Translation string    `gorm:"not null" json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Vocabulary) TableName() string {
	return "vocabularies"
}

// 単語作成リクエストDTO
type PostVocabularyRequest struct {
	Prefix      string `json:"prefix" validate:"omitempty,oneof=pre- un-"`
	Suffix      string `json:"suffix" validate:"omitempty,oneof=-tion -able"`
	English     string `json:"english" validate:"required,max=100"`
	Translation string `json:"translation" validate:"required,max=100"`
}

// 単語更新リクエストDTO (全項目置き換え)
type PutVocabularyRequest struct {
	Prefix      string `json:"prefix" validate:"omitempty,oneof=pre- un-"`
	Suffix      string `json:"suffix" validate:"omitempty,oneof=-tion -able"`
	English     string `json:"english" validate:"required,max=100"`
	Translation string `json:"translation" validate:"required,max=100"`
}

// VocabularyFields はサービス層に渡す正規化前の入力
type VocabularyFields struct {
	Prefix      string
	Suffix      string
	English     string
	Translation string
}
