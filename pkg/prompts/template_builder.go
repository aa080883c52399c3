package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

// SynthesisPromptBuilder は、埋め込みテンプレートから物語生成プロンプトを
// 組み立てる契約です。
type SynthesisPromptBuilder interface {
	Build(data SynthesisData) (string, error)
}

// StoryPromptBuilder は物語生成プロンプトの構成を管理します。
type StoryPromptBuilder struct {
	tmpl *template.Template
}

// インターフェース充足をコンパイル時に検証するのだ
var _ SynthesisPromptBuilder = (*StoryPromptBuilder)(nil)

// NewStoryPromptBuilder は StoryPromptBuilder を初期化します。
func NewStoryPromptBuilder() (*StoryPromptBuilder, error) {
	if synthesisTemplate == "" {
		return nil, fmt.Errorf("プロンプトテンプレート (go:embed) の読み込みに失敗しました: 内容が空です")
	}

	tmpl, err := template.New("story_synthesis").Parse(synthesisTemplate)
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの解析に失敗: %w", err)
	}

	return &StoryPromptBuilder{tmpl: tmpl}, nil
}

// Build は、物語の題材とキャラクター情報をテンプレートへ展開します。
func (b *StoryPromptBuilder) Build(data SynthesisData) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}

	return sb.String(), nil
}
