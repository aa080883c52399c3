package story

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// Provider は12ページの物語アウトラインを供給する契約です。
// 実装は合成ストーリー (Synthesizer) とテンプレートストーリー
// (TemplateNarrative) の2系統です。
type Provider interface {
	// Outline はキャラクターの容姿説明を受け取り、必ず12ページの
	// アウトラインを返すのだ。
	Outline(ctx context.Context, description string) (domain.StoryOutline, error)
}
