package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// fakeTextGenerator は固定の応答を返すテスト用の物語生成AIなのだ。
type fakeTextGenerator struct {
	raw          string
	err          error
	calls        int
	systemPrompt string
	userPrompt   string
}

func (f *fakeTextGenerator) GenerateStory(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	return f.raw, f.err
}

func newTestSynthesizer(t *testing.T, text TextGenerator) *Synthesizer {
	t.Helper()

	builder, err := prompts.NewStoryPromptBuilder()
	if err != nil {
		t.Fatalf("プロンプトビルダーの初期化に失敗したのだ: %v", err)
	}
	theme, ok := ThemeFor("little_red_riding_hood")
	if !ok {
		t.Fatal("題材カタログに little_red_riding_hood がないのだ")
	}
	return NewSynthesizer(text, builder, theme, domain.GenderGirl)
}

// storyJSON は指定ページ数のアウトラインJSONを組み立てるのだ。
func storyJSON(t *testing.T, pageCount int) string {
	t.Helper()

	outline := domain.StoryOutline{Title: "Little Red Riding Hood"}
	for i := 1; i <= pageCount; i++ {
		outline.Pages = append(outline.Pages, domain.StoryPage{
			PageNumber:       i,
			SceneDescription: fmt.Sprintf("scene %d", i),
			Text:             fmt.Sprintf("text %d", i),
			ImagePrompt:      fmt.Sprintf("prompt %d", i),
		})
	}
	data, err := json.Marshal(outline)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSynthesizer_Outline(t *testing.T) {
	ctx := context.Background()
	const description = "a girl with curly brown hair"

	t.Run("12ページのJSONはそのまま通るのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: storyJSON(t, 12)}
		s := newTestSynthesizer(t, gen)

		outline, err := s.Outline(ctx, description)
		if err != nil {
			t.Fatalf("エラーが返ったのだ: %v", err)
		}
		if !outline.HasExactPageCount() {
			t.Fatalf("ページ数が%dなのだ", len(outline.Pages))
		}
		if outline.Pages[0].Text != "text 1" || outline.Pages[11].Text != "text 12" {
			t.Error("ページ本文が保持されていないのだ")
		}
	})

	t.Run("コードフェンス付きの応答もパースできるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: "```json\n" + storyJSON(t, 12) + "\n```"}
		s := newTestSynthesizer(t, gen)

		outline, err := s.Outline(ctx, description)
		if err != nil {
			t.Fatal(err)
		}
		if outline.Title != "Little Red Riding Hood" {
			t.Errorf("タイトルが期待と違うのだ: %s", outline.Title)
		}
	})

	t.Run("5ページの応答は定型ページで12まで埋められるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: storyJSON(t, 5)}
		s := newTestSynthesizer(t, gen)

		outline, _ := s.Outline(ctx, description)
		if len(outline.Pages) != domain.PageCount {
			t.Fatalf("ページ数が%dなのだ", len(outline.Pages))
		}
		if outline.Pages[4].Text != "text 5" {
			t.Error("元の5ページ目が保持されていないのだ")
		}
		pad := outline.Pages[5]
		if pad.SceneDescription != "Story continues" || pad.Text != "The adventure continues..." {
			t.Errorf("埋めページの定型文が期待と違うのだ: %+v", pad)
		}
		if pad.PageNumber != 6 {
			t.Errorf("埋めページの番号が%dなのだ", pad.PageNumber)
		}
		if !strings.Contains(pad.ImagePrompt, description) {
			t.Error("埋めページのプロンプトに容姿説明が再注入されていないのだ")
		}
	})

	t.Run("20ページの応答は元の順序のまま先頭12ページへ切り詰めるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: storyJSON(t, 20)}
		s := newTestSynthesizer(t, gen)

		outline, _ := s.Outline(ctx, description)
		if len(outline.Pages) != domain.PageCount {
			t.Fatalf("ページ数が%dなのだ", len(outline.Pages))
		}
		if outline.Pages[11].Text != "text 12" {
			t.Errorf("12ページ目の本文が期待と違うのだ: %s", outline.Pages[11].Text)
		}
	})

	t.Run("空のpages配列は12ページまで埋められるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: `{"story_title": "Little Red Riding Hood", "pages": []}`}
		s := newTestSynthesizer(t, gen)

		outline, _ := s.Outline(ctx, description)
		if len(outline.Pages) != domain.PageCount {
			t.Fatalf("ページ数が%dなのだ", len(outline.Pages))
		}
		if outline.Pages[0].PageNumber != 1 || outline.Pages[11].PageNumber != 12 {
			t.Error("埋めページの番号が連番になっていないのだ")
		}
	})

	t.Run("pagesキー自体の欠落は定型シーンへ落ちるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: `{"story_title": "Broken"}`}
		s := newTestSynthesizer(t, gen)

		outline, _ := s.Outline(ctx, description)
		assertFallbackOutline(t, outline, description)
	})

	t.Run("生成エラーは定型シーンへ落ちるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{err: errors.New("api down")}
		s := newTestSynthesizer(t, gen)

		outline, err := s.Outline(ctx, description)
		if err != nil {
			t.Fatalf("エラーが伝播してしまったのだ: %v", err)
		}
		assertFallbackOutline(t, outline, description)
	})

	t.Run("JSONとして壊れた応答も定型シーンへ落ちるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: "Once upon a time, not JSON at all"}
		s := newTestSynthesizer(t, gen)

		outline, _ := s.Outline(ctx, description)
		assertFallbackOutline(t, outline, description)
	})

	t.Run("クライアント未設定でも定型シーンで完結するのだ", func(t *testing.T) {
		s := newTestSynthesizer(t, nil)

		outline, err := s.Outline(ctx, description)
		if err != nil {
			t.Fatal(err)
		}
		assertFallbackOutline(t, outline, description)
	})

	t.Run("プロンプトには容姿説明と性別が織り込まれるのだ", func(t *testing.T) {
		gen := &fakeTextGenerator{raw: storyJSON(t, 12)}
		s := newTestSynthesizer(t, gen)

		if _, err := s.Outline(ctx, description); err != nil {
			t.Fatal(err)
		}
		if gen.systemPrompt != prompts.StorySystemInstruction {
			t.Errorf("システムプロンプトが期待と違うのだ: %s", gen.systemPrompt)
		}
		if !strings.Contains(gen.userPrompt, description) {
			t.Error("ユーザープロンプトに容姿説明がないのだ")
		}
		if !strings.Contains(gen.userPrompt, "(a Girl described as") {
			t.Error("ユーザープロンプトに性別がないのだ")
		}
	})
}

// assertFallbackOutline は定型シーン由来のアウトラインであることを検証するのだ。
func assertFallbackOutline(t *testing.T, outline domain.StoryOutline, description string) {
	t.Helper()

	if len(outline.Pages) != domain.PageCount {
		t.Fatalf("ページ数が%dなのだ", len(outline.Pages))
	}
	if outline.Title != "Little Red Riding Hood" {
		t.Errorf("タイトルが期待と違うのだ: %s", outline.Title)
	}
	first := outline.Pages[0]
	if first.SceneDescription != "Cover: Little Red Riding Hood in red hood" {
		t.Errorf("定型シーンの役名置換がされていないのだ: %s", first.SceneDescription)
	}
	if first.Text != "This is page 1 of the story." {
		t.Errorf("定型本文が期待と違うのだ: %s", first.Text)
	}
	if !strings.Contains(first.ImagePrompt, description) {
		t.Error("定型プロンプトに容姿説明が再注入されていないのだ")
	}
	if strings.Contains(first.ImagePrompt, characterNamePlaceholder) {
		t.Error("プレースホルダーが置換されずに残っているのだ")
	}
}
