// Package gemini は go-gemini-client を物語合成の契約に適合させるのだ。
// OpenAI の代わりに Gemini で台本を起こす構成で使うのだ。
package gemini

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-storybook-kit/pkg/story"
	"google.golang.org/genai"
)

var _ story.TextGenerator = (*Narrator)(nil)

// デフォルト値の定義なのだ
const (
	DefaultModel = "gemini-3-flash-preview"

	defaultTemperature = float32(0.7)
)

// Narrator は GenerativeModel を物語合成向けに包むアダプタなのだ。
type Narrator struct {
	model gemini.GenerativeModel
	name  string
}

// NewClient は APIキーから GenerativeModel を初期化します。
func NewClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// NewNarrator はモデルを検証し、新しい Narrator を初期化します。
// modelName が空のときはデフォルトモデルに落ちるのだ。
func NewNarrator(model gemini.GenerativeModel, modelName string) (*Narrator, error) {
	if model == nil {
		return nil, fmt.Errorf("model は必須です")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Narrator{model: model, name: modelName}, nil
}

// GenerateStory はシステム指示とユーザープロンプトを連結して1回の生成にまとめます。
// Gemini にはシステムロールを分ける口が無いため、先頭に指示を畳み込むのだ。
func (n *Narrator) GenerateStory(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}

	resp, err := n.model.GenerateContent(ctx, prompt, n.name)
	if err != nil {
		return "", fmt.Errorf("物語の生成に失敗しました: %w", err)
	}
	return resp.Text, nil
}
