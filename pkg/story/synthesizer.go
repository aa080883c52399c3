package story

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// TextGenerator は、プロンプトから物語JSONテキストを生成するAIとの契約なのだ。
type TextGenerator interface {
	GenerateStory(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ページ数の補正と定型本文に使う文言なのだ。
const (
	paddingScene = "Story continues"
	paddingText  = "The adventure continues..."
)

// Synthesizer は、題材とキャラクター情報からAIに12ページの物語を合成させます。
// 生成・パースに失敗しても題材付属の定型シーンへ落とすため、決してエラーを返しません。
type Synthesizer struct {
	text    TextGenerator                  // 物語生成AI。未設定(nil)なら常に定型シーンを使う
	builder prompts.SynthesisPromptBuilder // 題材をプロンプトへ展開するビルダー
	theme   Theme                          // 合成させる題材
	gender  string                         // "Boy" または "Girl"
}

var _ Provider = (*Synthesizer)(nil)

// NewSynthesizer は新しい Synthesizer を生成します。
func NewSynthesizer(text TextGenerator, builder prompts.SynthesisPromptBuilder, theme Theme, gender string) *Synthesizer {
	return &Synthesizer{
		text:    text,
		builder: builder,
		theme:   theme,
		gender:  gender,
	}
}

// Outline は物語アウトラインを合成し、必ず12ページに揃えて返します。
func (s *Synthesizer) Outline(ctx context.Context, description string) (domain.StoryOutline, error) {
	if s.text == nil {
		return s.fallback(description), nil
	}

	userPrompt, err := s.builder.Build(prompts.SynthesisData{
		Theme:         s.theme.BasedOn,
		Title:         s.theme.Title,
		CharacterName: s.theme.CharacterName,
		Gender:        s.gender,
		Description:   description,
		AdventureNote: s.theme.AdventureNote,
	})
	if err != nil {
		slog.WarnContext(ctx, "プロンプト構築に失敗したため定型シーンへ切り替えるのだ", "theme", s.theme.Key, "error", err)
		return s.fallback(description), nil
	}

	raw, err := s.text.GenerateStory(ctx, prompts.StorySystemInstruction, userPrompt)
	if err != nil {
		slog.WarnContext(ctx, "物語の生成に失敗したため定型シーンへ切り替えるのだ", "theme", s.theme.Key, "error", err)
		return s.fallback(description), nil
	}

	outline, err := parseOutline(raw)
	if err != nil {
		slog.WarnContext(ctx, "物語JSONのパースに失敗したため定型シーンへ切り替えるのだ", "theme", s.theme.Key, "error", err)
		return s.fallback(description), nil
	}

	s.repairPageCount(&outline, description)
	return outline, nil
}

// parseOutline は、AI応答からMarkdownのコードフェンスを取り除いてJSONとしてパースするのだ。
func parseOutline(raw string) (domain.StoryOutline, error) {
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	var outline domain.StoryOutline
	if err := json.Unmarshal([]byte(rawJSON), &outline); err != nil {
		return domain.StoryOutline{}, fmt.Errorf("JSONのパースに失敗したのだ: %w", err)
	}
	// pages キー自体の欠落は構造不正。空配列は補正対象として通すのだ
	if outline.Pages == nil {
		return domain.StoryOutline{}, fmt.Errorf("応答に pages 配列が含まれていないのだ")
	}
	return outline, nil
}

// repairPageCount は、AIがページ数を守らなかった場合に12ページへ補正するのだ。
// 多すぎる場合は先頭12ページを残し、足りない場合は定型ページで埋めるのだ。
func (s *Synthesizer) repairPageCount(outline *domain.StoryOutline, description string) {
	if len(outline.Pages) > domain.PageCount {
		outline.Pages = outline.Pages[:domain.PageCount]
		return
	}
	for len(outline.Pages) < domain.PageCount {
		outline.Pages = append(outline.Pages, domain.StoryPage{
			PageNumber:       len(outline.Pages) + 1,
			SceneDescription: paddingScene,
			Text:             paddingText,
			ImagePrompt:      fmt.Sprintf("%s, children's book illustration", description),
		})
	}
}

// fallback は、題材に同梱された定型12シーンからアウトラインを組むのだ。
func (s *Synthesizer) fallback(description string) domain.StoryOutline {
	pages := make([]domain.StoryPage, 0, domain.PageCount)
	for i, scene := range s.theme.FallbackScenes {
		scene = strings.ReplaceAll(scene, characterNamePlaceholder, s.theme.CharacterName)
		pages = append(pages, domain.StoryPage{
			PageNumber:       i + 1,
			SceneDescription: scene,
			Text:             fmt.Sprintf("This is page %d of the story.", i+1),
			ImagePrompt:      fmt.Sprintf("%s, featuring %s, children's book illustration style, vibrant colors", scene, description),
		})
	}
	return domain.StoryOutline{Title: s.theme.Title, Pages: pages}
}
