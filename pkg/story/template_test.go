package story

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/bundle"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// writeNarrativeBundle は TemplateNarrative 用の完全なバンドルを用意するのだ。
func writeNarrativeBundle(t *testing.T, root, name string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	pages := make([]string, domain.PageCount)
	for i := range pages {
		pages[i] = fmt.Sprintf("Template page %d text.", i+1)
	}
	story := bundle.Story{
		Title:    "The Enchanted Forest",
		Subtitle: "A story starring {name}",
		Pages:    pages,
	}
	data, err := json.Marshal(story)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, bundle.StoryFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 90, G: 160, B: 220, A: 255})
		}
	}
	files := []string{bundle.CoverFileName}
	for i := 1; i <= domain.PageCount; i++ {
		files = append(files, bundle.PageFileName(i))
	}
	for _, name := range files {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			t.Fatal(err)
		}
		f.Close()
	}
}

func TestTemplateNarrative_Outline(t *testing.T) {
	ctx := context.Background()

	t.Run("バンドルの本文がそのまま12ページのアウトラインになるのだ", func(t *testing.T) {
		root := t.TempDir()
		writeNarrativeBundle(t, root, "enchanted_forest")

		tn := NewTemplateNarrative(bundle.NewLibrary(root), "enchanted_forest", "Alice")
		if tn.Bundle() != nil {
			t.Error("Outline前にバンドルが入っているのだ")
		}

		outline, err := tn.Outline(ctx, "unused description")
		if err != nil {
			t.Fatalf("読み込みに失敗したのだ: %v", err)
		}
		if outline.Title != "The Enchanted Forest" {
			t.Errorf("タイトルが期待と違うのだ: %s", outline.Title)
		}
		if !outline.HasExactPageCount() {
			t.Fatalf("ページ数が%dなのだ", len(outline.Pages))
		}
		if outline.Pages[6].Text != "Template page 7 text." {
			t.Errorf("7ページ目の本文が期待と違うのだ: %s", outline.Pages[6].Text)
		}
		if outline.Pages[6].PageNumber != 7 {
			t.Errorf("ページ番号が%dなのだ", outline.Pages[6].PageNumber)
		}
		if tn.Bundle() == nil {
			t.Error("Outline後もバンドルが保持されていないのだ")
		}
	})

	t.Run("バンドルが見つからない場合はエラーが伝播するのだ", func(t *testing.T) {
		tn := NewTemplateNarrative(bundle.NewLibrary(t.TempDir()), "no_such_bundle", "Alice")

		_, err := tn.Outline(ctx, "")
		if err == nil {
			t.Fatal("エラーが返らないのだ")
		}
		if !strings.Contains(err.Error(), "story template not found") {
			t.Errorf("エラーメッセージが期待と違うのだ: %v", err)
		}
	})
}

func TestTemplateNarrative_Subtitle(t *testing.T) {
	ctx := context.Background()

	t.Run("副題の{name}が子供の名前に置換されるのだ", func(t *testing.T) {
		root := t.TempDir()
		writeNarrativeBundle(t, root, "enchanted_forest")

		tn := NewTemplateNarrative(bundle.NewLibrary(root), "enchanted_forest", "Haru")
		if _, err := tn.Outline(ctx, ""); err != nil {
			t.Fatal(err)
		}

		if got := tn.Subtitle(); got != "A story starring Haru" {
			t.Errorf("副題が期待と違うのだ: %s", got)
		}
	})

	t.Run("未読込の副題は空文字なのだ", func(t *testing.T) {
		tn := NewTemplateNarrative(bundle.NewLibrary(t.TempDir()), "x", "Haru")
		if got := tn.Subtitle(); got != "" {
			t.Errorf("空文字以外が返ったのだ: %s", got)
		}
	})
}
