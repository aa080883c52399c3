// Package bundle は、テンプレート方式の物語が使う素材一式（物語テキストと
// 表紙+12ページ分のラスタ画像）を名前付きディレクトリから読み込みます。
package bundle

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// StoryFileName はバンドル内の物語定義ファイル名です。
	StoryFileName = "story.json"
	// CoverFileName は表紙画像のファイル名です。
	CoverFileName = "cover.png"
	// NamePlaceholder はサブタイトル内で主人公名に置換されるトークンです。
	NamePlaceholder = "{name}"
)

// PageFileName は「Page 7.png」のような N ページ目の画像ファイル名を返します。
func PageFileName(n int) string {
	return fmt.Sprintf("Page %d.png", n)
}

// Story はバンドルの story.json の構造です。サブタイトルには
// NamePlaceholder を1箇所含めることができます。
type Story struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Pages    []string `json:"pages"`
}

// Bundle は読み込み済みのテンプレート素材一式です。読み込み後は不変であり、
// 複数のジョブから同時に参照されます。
type Bundle struct {
	Name  string
	Story Story
	Cover image.Image
	pages []image.Image
}

// Page は 1 始まりのページ番号に対応するテンプレート画像を返します。
func (b *Bundle) Page(n int) (image.Image, bool) {
	if n < 1 || n > len(b.pages) {
		return nil, false
	}
	return b.pages[n-1], true
}

// PageCount は読み込んだページ画像の枚数を返すのだ。
func (b *Bundle) PageCount() int {
	return len(b.pages)
}

// loadStory は story.json を読み込んで検証するのだ。
func loadStory(dir string) (Story, error) {
	path := filepath.Join(dir, StoryFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Story{}, fmt.Errorf("story template not found: %s", filepath.Base(dir))
	}

	var story Story
	if err := json.Unmarshal(data, &story); err != nil {
		return Story{}, fmt.Errorf("story template is invalid: %w", err)
	}
	if len(story.Pages) != expectedPages {
		return Story{}, fmt.Errorf("story template is invalid: expected %d pages, got %d", expectedPages, len(story.Pages))
	}
	return story, nil
}

// loadImage は1枚のテンプレート画像を開いてデコードするのだ。
// 見つからない場合のメッセージはジョブのエラー欄にそのまま出るため英語で揃えるのだ。
func loadImage(dir, fileName string) (image.Image, error) {
	f, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("page not found: %s", fileName)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("page image is broken: %s: %w", fileName, err)
	}
	return img, nil
}
