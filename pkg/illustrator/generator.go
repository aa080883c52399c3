package illustrator

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/time/rate"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// GenerateClient は、プロンプトから画像を生成して取得先URLを返すAPIとの契約なのだ。
type GenerateClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Generator は、シーンのプロンプトから画像生成APIで挿絵を新規に起こす戦略です。
// どこで失敗してもプレースホルダー画像へ落とすため、決してエラーを返しません。
type Generator struct {
	client  GenerateClient              // 画像生成APIクライアント。未設定(nil)なら常にプレースホルダー
	prompts *prompts.ImagePromptBuilder // 容姿説明を再注入するプロンプトビルダー
	fetcher *ImageFetcher               // 応答URLから画像本体を取得するフェッチャー
	limiter *rate.Limiter               // ページ間の生成間隔を強制するリミッター
}

// NewGenerator は新しい Generator を生成します。
// delay は連続するページ生成の間に強制される待ち時間です。
func NewGenerator(client GenerateClient, pb *prompts.ImagePromptBuilder, fetcher *ImageFetcher, delay time.Duration) *Generator {
	return &Generator{
		client:  client,
		prompts: pb,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Illustrate は1ページ分の挿絵を生成し、NRGBAへ正規化して返します。
func (g *Generator) Illustrate(ctx context.Context, page domain.StoryPage) image.Image {
	if err := g.limiter.Wait(ctx); err != nil {
		slog.WarnContext(ctx, "生成間隔の待機が中断されたのだ", "page", page.PageNumber, "error", err)
		return Placeholder()
	}

	if g.client == nil {
		return Placeholder()
	}

	prompt := g.prompts.BuildPagePrompt(page.ImagePrompt, page.PageNumber)

	url, err := g.client.GenerateImage(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "挿絵の生成に失敗したためプレースホルダーで埋めるのだ", "page", page.PageNumber, "error", err)
		return Placeholder()
	}

	img, err := g.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "挿絵のダウンロードに失敗したためプレースホルダーで埋めるのだ", "page", page.PageNumber, "error", err)
		return Placeholder()
	}

	slog.Info("ページの挿絵を生成したのだ", "page", page.PageNumber)
	return imaging.Clone(img)
}
