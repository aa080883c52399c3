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

// EditClient は、ベース画像とマスクから編集済み画像のURLを返すAPIとの契約なのだ。
type EditClient interface {
	EditImage(ctx context.Context, basePNG, maskPNG []byte, prompt string) (string, error)
}

// PageSource は、ページ番号からテンプレート画像を引き当てる契約なのだ。
// bundle.Bundle がこれを満たすのだ。
type PageSource interface {
	Page(n int) (image.Image, bool)
}

// MaskedEditor は、テンプレート画像の顔領域だけを編集APIで差し替える戦略です。
// 編集に失敗した場合は未加工のテンプレート画像を返すため、決してエラーを返しません。
type MaskedEditor struct {
	client  EditClient                  // 編集APIクライアント。未設定(nil)なら常に未加工のテンプレート
	source  PageSource                  // テンプレートページの供給元
	prompts *prompts.ImagePromptBuilder // 容姿説明を再注入するプロンプトビルダー
	fetcher *ImageFetcher               // 応答URLから画像本体を取得するフェッチャー
	limiter *rate.Limiter               // ページ間の編集間隔を強制するリミッター
}

// NewMaskedEditor は新しい MaskedEditor を生成します。
func NewMaskedEditor(client EditClient, source PageSource, pb *prompts.ImagePromptBuilder, fetcher *ImageFetcher, delay time.Duration) *MaskedEditor {
	return &MaskedEditor{
		client:  client,
		source:  source,
		prompts: pb,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Illustrate はテンプレートページの顔領域を差し替えた画像を返します。
// マスク生成・API呼び出し・ダウンロードのどこで失敗しても未加工のテンプレートへ落とすのだ。
func (me *MaskedEditor) Illustrate(ctx context.Context, page domain.StoryPage) image.Image {
	template, ok := me.source.Page(page.PageNumber)
	if !ok {
		// バンドル読み込みが成功していれば全ページ揃っているはずなのだ
		slog.ErrorContext(ctx, "テンプレートページが引き当てられないのだ", "page", page.PageNumber)
		return Placeholder()
	}

	if err := me.limiter.Wait(ctx); err != nil {
		slog.WarnContext(ctx, "編集間隔の待機が中断されたのだ", "page", page.PageNumber, "error", err)
		return imaging.Clone(template)
	}

	if me.client == nil {
		return imaging.Clone(template)
	}

	basePNG, maskPNG, err := encodeEditPair(template)
	if err != nil {
		slog.WarnContext(ctx, "編集用画像の構築に失敗したためテンプレートをそのまま使うのだ", "page", page.PageNumber, "error", err)
		return imaging.Clone(template)
	}

	url, err := me.client.EditImage(ctx, basePNG, maskPNG, me.prompts.BuildEditPrompt())
	if err != nil {
		slog.WarnContext(ctx, "顔領域の編集に失敗したためテンプレートをそのまま使うのだ", "page", page.PageNumber, "error", err)
		return imaging.Clone(template)
	}

	edited, err := me.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "編集結果のダウンロードに失敗したためテンプレートをそのまま使うのだ", "page", page.PageNumber, "error", err)
		return imaging.Clone(template)
	}

	slog.Info("ページの顔領域を差し替えたのだ", "page", page.PageNumber)
	return imaging.Clone(edited)
}
