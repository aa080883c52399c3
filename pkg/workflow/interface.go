package workflow

import (
	"context"
	"image"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// CharacterProfiler はアップロードされた写真から主人公の容姿説明を起こす責務を持ちます。
// 失敗してもエラーは返さず、無難な代替説明で生成を続行させるのだ。
type CharacterProfiler interface {
	Describe(ctx context.Context, imagePath string) string
}

// PageIllustrator は台本の1ページ分の挿絵を仕上げる責務を持ちます。
// 生成に失敗した場合も代替画像を返し、1冊分の工程を止めないのだ。
type PageIllustrator interface {
	Illustrate(ctx context.Context, page domain.StoryPage) image.Image
}

// Pipeline は1冊分の台本と、その台本に対応する挿絵係を組み立てる責務を持ちます。
type Pipeline interface {
	Prepare(ctx context.Context, description string) (domain.StoryOutline, PageIllustrator, error)
}

// CoverProvider は本文ページの前に差し込む表紙を供給するのだ。
// テンプレートバンドル系の Pipeline だけが実装する任意の契約なのだ。
type CoverProvider interface {
	Cover() (domain.PageArtifact, bool)
}

// PipelineSelector は story_type を解決し、対応する Pipeline を組み立てる責務を持ちます。
type PipelineSelector interface {
	Classify(storyType string) StoryKind
	Select(req Request) (Pipeline, error)
}

// DocumentComposer はページアーティファクト列を1つのPDFへ描き出す責務を持ちます。
type DocumentComposer interface {
	Compose(artifacts []domain.PageArtifact, outputPath string) error
}

// ProgressStore は生成の進捗レコードを保存・照会する責務を持ちます。
type ProgressStore interface {
	Put(job domain.Job)
	Get(token string) (domain.Job, bool)
	Reap()
}
