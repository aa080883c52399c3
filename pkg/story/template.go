package story

import (
	"context"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/bundle"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// TemplateNarrative は、事前に用意されたテンプレートバンドルから物語を供給します。
// 合成系と違い、バンドルの読み込み失敗はジョブ全体の失敗として呼び出し元へ伝播します。
type TemplateNarrative struct {
	library    *bundle.Library
	bundleName string
	childName  string

	loaded *bundle.Bundle // Outline 成功後に保持する読み込み済みバンドル
}

var _ Provider = (*TemplateNarrative)(nil)

// NewTemplateNarrative は新しい TemplateNarrative を生成します。
func NewTemplateNarrative(library *bundle.Library, bundleName, childName string) *TemplateNarrative {
	return &TemplateNarrative{
		library:    library,
		bundleName: bundleName,
		childName:  childName,
	}
}

// Outline はバンドルを読み込み、ページ本文をそのまま物語アウトラインへ写します。
// テンプレートの本文は固定のため、容姿説明は使わないのだ。
func (tn *TemplateNarrative) Outline(ctx context.Context, _ string) (domain.StoryOutline, error) {
	b, err := tn.library.Load(ctx, tn.bundleName)
	if err != nil {
		return domain.StoryOutline{}, err
	}
	tn.loaded = b

	pages := make([]domain.StoryPage, 0, len(b.Story.Pages))
	for i, text := range b.Story.Pages {
		pages = append(pages, domain.StoryPage{
			PageNumber: i + 1,
			Text:       text,
		})
	}

	return domain.StoryOutline{Title: b.Story.Title, Pages: pages}, nil
}

// Bundle は Outline 成功後の読み込み済みバンドルを返します。未読込なら nil です。
func (tn *TemplateNarrative) Bundle() *bundle.Bundle {
	return tn.loaded
}

// Subtitle は副題の {name} プレースホルダーを子供の名前へ置換して返します。
// 表紙ページのキャプションとして使われます。
func (tn *TemplateNarrative) Subtitle() string {
	if tn.loaded == nil {
		return ""
	}
	return strings.ReplaceAll(tn.loaded.Story.Subtitle, bundle.NamePlaceholder, tn.childName)
}
