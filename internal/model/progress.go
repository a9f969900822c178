// internal/model/progress.go
package model

import "time"

type QuizMode string

const (
	ModeWordQuiz     QuizMode = "word_quiz"
	ModeSentenceQuiz QuizMode = "sentence_quiz"
)

// ProgressEvent はクイズ1回分の回答結果。作成後は変更しない
type ProgressEvent struct {
	ID        uint      `gorm:"primaryKey" json:"progress_id"`
	OwnerID   uint      `gorm:"not null;index" json:"-"`
	VocabID   uint      `gorm:"not null;index" json:"vocab_id"` // 弱参照 (単語削除後も残り得る)
	Correct   bool      `gorm:"not null" json:"correct"`
	Mode      QuizMode  `gorm:"type:varchar(20);not null" json:"mode"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

func (ProgressEvent) TableName() string {
	return "progress_events"
}

// 削除済み単語を参照するイベントの表示用
const DeletedWordEnglish = "Deleted Word"

// ProgressRecord は単語情報を結合した進捗レスポンス
type ProgressRecord struct {
	ID          uint      `json:"progress_id"`
	VocabID     uint      `json:"vocab_id"`
	English     string    `json:"english"`
	Translation string    `json:"translation"`
	Deleted     bool      `json:"deleted"`
	Correct     bool      `json:"correct"`
	Mode        QuizMode  `json:"mode"`
	Timestamp   time.Time `json:"timestamp"`
}

// ModeSummary はモード別の集計
type ModeSummary struct {
	Mode     QuizMode `json:"mode"`
	Total    int      `json:"total"`
	Correct  int      `json:"correct"`
	Accuracy float64  `json:"accuracy"`
}

// ProgressSummary は進捗ページ用の集計
type ProgressSummary struct {
	Total    int            `json:"total"`
	Correct  int            `json:"correct"`
	Accuracy float64        `json:"accuracy"`
	ByMode   []*ModeSummary `json:"by_mode"`
}
