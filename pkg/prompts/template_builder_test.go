package prompts

import (
	"strings"
	"testing"
)

func TestStoryPromptBuilder_Build(t *testing.T) {
	builder, err := NewStoryPromptBuilder()
	if err != nil {
		t.Fatalf("ビルダーの初期化に失敗したのだ: %v", err)
	}

	data := SynthesisData{
		Theme:         "Little Red Riding Hood",
		Title:         "Little Red Riding Hood",
		CharacterName: "Little Red Riding Hood",
		Gender:        "Girl",
		Description:   "A 6-year-old girl with curly brown hair",
		AdventureNote: "The adventure story",
	}

	prompt, err := builder.Build(data)
	if err != nil {
		t.Fatalf("プロンプト構築に失敗したのだ: %v", err)
	}

	t.Run("題材とキャラクター情報が展開されるのだ", func(t *testing.T) {
		wants := []string{
			"based on Little Red Riding Hood",
			"starring Little Red Riding Hood (a Girl described as A 6-year-old girl with curly brown hair)",
			`story_title: "Little Red Riding Hood"`,
			"array of 12 objects",
		}
		for _, w := range wants {
			if !strings.Contains(prompt, w) {
				t.Errorf("プロンプトに %q が含まれていないのだ", w)
			}
		}
	})

	t.Run("JSONのみを返す指示で締めるのだ", func(t *testing.T) {
		if !strings.Contains(prompt, "Return ONLY valid JSON, no markdown formatting.") {
			t.Error("JSON限定の指示が欠けているのだ")
		}
	})

	t.Run("容姿説明はimage_promptの指示にも再注入されるのだ", func(t *testing.T) {
		if strings.Count(prompt, "A 6-year-old girl with curly brown hair") < 2 {
			t.Error("容姿説明が1回しか現れないのだ")
		}
	})
}
