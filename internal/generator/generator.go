// Package generator は穴埋め問題用の例文を外部サービスから取得し、検証します。
//
// Generate は失敗を返さない。生成に使えない場合はマーカー文字列を含むプレースホルダーを返し、
// Status で理由を区別できる。再試行とキャッシュは行わない。
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_vocab_quiz/internal/middleware"
)

// プレースホルダーの識別用マーカー
const (
	MarkerInvalid       = "Invalid sentence"
	MarkerFailed        = "Failed to generate sentence"
	MarkerNotConfigured = "Placeholder sentence"
)

type Status int

const (
	StatusOK            Status = iota
	StatusInvalid              // 単語がちょうど1回出現しない (再試行で直る可能性あり)
	StatusFailed               // 通信・タイムアウト・パース失敗
	StatusNotConfigured        // APIキー未設定
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalid:
		return "invalid"
	case StatusFailed:
		return "failed"
	case StatusNotConfigured:
		return "not_configured"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Sentence は生成結果。Status が StatusOK 以外の Text はプレースホルダー
type Sentence struct {
	Text   string
	Status Status
}

func (s Sentence) OK() bool {
	return s.Status == StatusOK
}

func InvalidPlaceholder(word string) string {
	return fmt.Sprintf("%s for %s: word does not appear exactly once.", MarkerInvalid, word)
}

func FailedPlaceholder(word string) string {
	return fmt.Sprintf("%s for %s. Try again later.", MarkerFailed, word)
}

func NotConfiguredPlaceholder(word string) string {
	return fmt.Sprintf("%s with %s.", MarkerNotConfigured, word)
}

// BuildPrompt は単語をそのままの形で1回だけ使う短文を依頼するプロンプトを作ります
func BuildPrompt(word string) string {
	return fmt.Sprintf(
		"Generate a short English sentence (5-10 words) using the exact word '%s' (not a variation like '%sing' or '%ss'). "+
			"The sentence should be simple, clear, and suitable for vocabulary learning. Ensure '%s' appears exactly once.",
		word, word, word, word,
	)
}

// CountOccurrences は大文字小文字を無視した出現回数を返します
func CountOccurrences(text, word string) int {
	if word == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(word))
}

type Generator struct {
	client  Client
	timeout time.Duration
}

// NewGenerator は外部呼び出し1回あたりの上限時間 timeout を持つ Generator を作ります
func NewGenerator(client Client, timeout time.Duration) *Generator {
	return &Generator{client: client, timeout: timeout}
}

// Generate は word を含む例文を1回だけ外部サービスに依頼します
func (g *Generator) Generate(ctx context.Context, word string) Sentence {
	logger := middleware.GetLogger(ctx).With("word", word)

	if g.client == nil {
		return Sentence{Text: NotConfiguredPlaceholder(word), Status: StatusNotConfigured}
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Complete(callCtx, BuildPrompt(word))
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			logger.Debug("Sentence service not configured, returning placeholder")
			return Sentence{Text: NotConfiguredPlaceholder(word), Status: StatusNotConfigured}
		}
		logger.Warn("Error generating sentence", "error", err)
		return Sentence{Text: FailedPlaceholder(word), Status: StatusFailed}
	}

	text = strings.TrimSpace(text)
	if n := CountOccurrences(text, word); n != 1 {
		logger.Info("Generated sentence rejected", "occurrences", n)
		return Sentence{Text: InvalidPlaceholder(word), Status: StatusInvalid}
	}
	return Sentence{Text: text, Status: StatusOK}
}
