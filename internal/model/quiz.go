// internal/model/quiz.go
package model

type Direction string

const (
	DirectionEngToChi Direction = "eng_to_chi"
	DirectionChiToEng Direction = "chi_to_eng"
)

func (d Direction) Valid() bool {
	return d == DirectionEngToChi || d == DirectionChiToEng
}

// 穴埋め問題の空欄
const BlankMarker = "____"

// BoundPrompt は出題内容と、それを生成した単語IDの組。
// 回答は表示文字列ではなく Token に署名された VocabID・Mode・Direction で照合する。
type BoundPrompt struct {
	VocabID   uint      `json:"vocab_id"`
	Question  string    `json:"question"`
	Mode      QuizMode  `json:"mode"`
	Direction Direction `json:"direction,omitempty"`
	Token     string    `json:"prompt_token"`
}

// SubmitAnswerRequest は回答送信のリクエストボディ
type SubmitAnswerRequest struct {
	PromptToken string `json:"prompt_token" validate:"required"`
	Answer      string `json:"answer"`
}

// SubmitAnswer はサービス層への回答入力。Mode は呼び出したエンドポイントで決まる
type SubmitAnswer struct {
	PromptToken string
	Mode        QuizMode
	Answer      string
}

// AnswerResult は採点結果
type AnswerResult struct {
	VocabID   uint      `json:"vocab_id"`
	Mode      QuizMode  `json:"mode"`
	Direction Direction `json:"direction,omitempty"`
	Answer    string    `json:"answer"`
	Expected  string    `json:"expected"`
	Correct   bool      `json:"correct"`
	EventID   uint      `json:"progress_id"`
}
