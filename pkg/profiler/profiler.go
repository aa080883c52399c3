package profiler

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// FallbackDescription は、容姿の解析に失敗した場合に採用する既定の説明です。
const FallbackDescription = "a child with kind features"

// VisionClient は、画像入りプロンプトから説明文を得る視覚APIとの契約なのだ。
type VisionClient interface {
	// DescribeImage は指示文とdata URL形式の画像を渡し、説明文を受け取るのだ。
	DescribeImage(ctx context.Context, instruction, imageDataURL string) (string, error)
}

// Profiler は、アップロードされた写真からキャラクターの容姿説明を起こします。
// 視覚APIの失敗は FallbackDescription で吸収し、決してエラーを返しません。
type Profiler struct {
	vision VisionClient // 視覚APIクライアント。未設定(nil)なら常に既定説明を返す
}

// NewProfiler は新しい Profiler を生成します。
func NewProfiler(vision VisionClient) *Profiler {
	return &Profiler{vision: vision}
}

// Describe は写真ファイルを読み込み、視覚APIで容姿説明を生成します。
// 読み込み・形式判別・API呼び出しのどこで失敗しても既定の説明へ落とすのだ。
func (p *Profiler) Describe(ctx context.Context, imagePath string) string {
	if p.vision == nil {
		return FallbackDescription
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		slog.WarnContext(ctx, "写真の読み込みに失敗したため既定の容姿説明を使うのだ", "path", imagePath, "error", err)
		return FallbackDescription
	}

	dataURL, err := encodeDataURL(data)
	if err != nil {
		slog.WarnContext(ctx, "写真の形式判別に失敗したため既定の容姿説明を使うのだ", "path", imagePath, "error", err)
		return FallbackDescription
	}

	description, err := p.vision.DescribeImage(ctx, prompts.VisionInstruction, dataURL)
	if err != nil || strings.TrimSpace(description) == "" {
		slog.WarnContext(ctx, "容姿の解析に失敗したため既定の説明を使うのだ", "error", err)
		return FallbackDescription
	}

	slog.Info("写真からキャラクターの容姿説明を起こしたのだ", "length", len(description))
	return description
}

// encodeDataURL は、画像形式を判別してMIMEタイプ付きのdata URLへ変換するのだ。
func encodeDataURL(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("画像形式を判別できないのだ: %w", err)
	}

	payload := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:image/%s;base64,%s", format, payload), nil
}
