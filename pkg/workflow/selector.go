package workflow

import (
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/bundle"
	"github.com/shouni/go-storybook-kit/pkg/illustrator"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/story"
)

// Selector は story_type に応じて、物語合成系かテンプレート差し替え系の
// Pipeline を組み立てるのだ。同梱題材のカタログを先に引き、見つからなければ
// テンプレートバンドルのライブラリを探すのだ。
type Selector struct {
	cfg     Config
	text    story.TextGenerator        // 物語合成AI (nil なら決め打ちの場面構成で進む)
	images  illustrator.GenerateClient // 挿絵生成AI (nil なら代替画像で進む)
	editor  illustrator.EditClient     // 顔差し替えAI (nil なら原画のまま進む)
	fetcher *illustrator.ImageFetcher
	library *bundle.Library
	builder prompts.SynthesisPromptBuilder
}

var _ PipelineSelector = (*Selector)(nil)

// SelectorArgs は Selector の構築に必要な依存の束なのだ。
// AIクライアント群は nil を許す。鍵なし運用でも代替素材で1冊を完走させるためなのだ。
type SelectorArgs struct {
	Config  Config
	Text    story.TextGenerator
	Images  illustrator.GenerateClient
	Editor  illustrator.EditClient
	Fetcher *illustrator.ImageFetcher
	Library *bundle.Library
}

// NewSelector は依存を検証し、新しい Selector を初期化します。
func NewSelector(args SelectorArgs) (*Selector, error) {
	if args.Fetcher == nil {
		return nil, fmt.Errorf("Fetcher は必須です")
	}

	builder, err := prompts.NewStoryPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの作成に失敗しました: %w", err)
	}

	return &Selector{
		cfg:     args.Config,
		text:    args.Text,
		images:  args.Images,
		editor:  args.Editor,
		fetcher: args.Fetcher,
		library: args.Library,
		builder: builder,
	}, nil
}

// Classify は story_type を同梱題材、テンプレートバンドルの順で解決するのだ。
func (s *Selector) Classify(storyType string) StoryKind {
	if _, ok := story.ThemeFor(storyType); ok {
		return StorySynthesis
	}
	if s.library != nil && s.library.Has(storyType) {
		return StoryTemplate
	}
	return StoryUnknown
}

// Select は要求に対応する Pipeline を組み立てます。
func (s *Selector) Select(req Request) (Pipeline, error) {
	switch s.Classify(req.StoryType) {
	case StorySynthesis:
		theme, _ := story.ThemeFor(req.StoryType)
		return &synthesisPipeline{
			narrative: story.NewSynthesizer(s.text, s.builder, theme, req.Gender),
			images:    s.images,
			fetcher:   s.fetcher,
			delay:     s.cfg.PageDelay,
		}, nil
	case StoryTemplate:
		return &templatePipeline{
			narrative: story.NewTemplateNarrative(s.library, req.StoryType, req.ChildName),
			editor:    s.editor,
			fetcher:   s.fetcher,
			delay:     s.cfg.PageDelay,
		}, nil
	default:
		return nil, fmt.Errorf("unknown story type: %s", req.StoryType)
	}
}
