package workflow

import (
	"context"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/illustrator"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/story"
)

// 両系統の実装が挿絵係と Pipeline の契約を満たすことを保証するのだ。
var (
	_ PageIllustrator = (*illustrator.Generator)(nil)
	_ PageIllustrator = (*illustrator.MaskedEditor)(nil)
	_ Pipeline        = (*synthesisPipeline)(nil)
	_ Pipeline        = (*templatePipeline)(nil)
	_ CoverProvider   = (*templatePipeline)(nil)
)

// synthesisPipeline は物語合成とプロンプト起点の挿絵生成を組み合わせるのだ。
type synthesisPipeline struct {
	narrative *story.Synthesizer
	images    illustrator.GenerateClient
	fetcher   *illustrator.ImageFetcher
	delay     time.Duration
}

// Prepare は容姿説明を織り込んだ台本を起こし、ページごとの挿絵係を返します。
// 物語合成は失敗しても決め打ちの場面構成へ落ちるため、ここでは止まらないのだ。
func (p *synthesisPipeline) Prepare(ctx context.Context, description string) (domain.StoryOutline, PageIllustrator, error) {
	outline, err := p.narrative.Outline(ctx, description)
	if err != nil {
		return domain.StoryOutline{}, nil, err
	}
	ill := illustrator.NewGenerator(p.images, prompts.NewImagePromptBuilder(description), p.fetcher, p.delay)
	return outline, ill, nil
}

// templatePipeline はテンプレートバンドルの本文と顔差し替えを組み合わせるのだ。
type templatePipeline struct {
	narrative *story.TemplateNarrative
	editor    illustrator.EditClient
	fetcher   *illustrator.ImageFetcher
	delay     time.Duration
}

// Prepare はバンドルを読み込んで台本を写し取り、マスク編集の挿絵係を返します。
// バンドルが欠損している場合はエラーを返し、1冊分の生成を止めるのだ。
func (p *templatePipeline) Prepare(ctx context.Context, description string) (domain.StoryOutline, PageIllustrator, error) {
	outline, err := p.narrative.Outline(ctx, description)
	if err != nil {
		return domain.StoryOutline{}, nil, err
	}
	ill := illustrator.NewMaskedEditor(p.editor, p.narrative.Bundle(), prompts.NewImagePromptBuilder(description), p.fetcher, p.delay)
	return outline, ill, nil
}

// Cover は表紙の原画と名前差し込み済みの副題を、先頭ページとして供給するのだ。
func (p *templatePipeline) Cover() (domain.PageArtifact, bool) {
	loaded := p.narrative.Bundle()
	if loaded == nil || loaded.Cover == nil {
		return domain.PageArtifact{}, false
	}
	return domain.PageArtifact{Image: loaded.Cover, Caption: p.narrative.Subtitle()}, true
}
