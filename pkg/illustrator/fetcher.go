package illustrator

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cenkalti/backoff/v4"
)

// downloadRetries は初回を除く再試行の回数なのだ。合計3回まで試行するのだ。
const downloadRetries = 2

// defaultFetchTimeout は1リクエストあたりのタイムアウトです。
const defaultFetchTimeout = 30 * time.Second

// ImageFetcher は、生成APIが返すURLから画像本体を取得します。
// 一時的な失敗は指数バックオフ付きで再試行します。
type ImageFetcher struct {
	client          *http.Client
	initialInterval time.Duration // 再試行の初期待ち時間。未設定なら1秒
}

// NewImageFetcher は新しい ImageFetcher を生成します。
// client が nil の場合は30秒タイムアウトの既定クライアントを使います。
func NewImageFetcher(client *http.Client) *ImageFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &ImageFetcher{
		client:          client,
		initialInterval: time.Second,
	}
}

// Fetch はURLから画像をダウンロードしてデコードします。
// 通信エラーと非200応答は再試行し、デコード不能な応答は即座に諦めるのだ。
func (f *ImageFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	interval := f.initialInterval
	if interval <= 0 {
		interval = time.Second
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.Multiplier = 2
	b.RandomizationFactor = 0

	var img image.Image
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("リクエストの生成に失敗したのだ: %w", err))
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("画像のダウンロードに失敗したのだ: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("画像のダウンロードに失敗したのだ: status=%d", resp.StatusCode)
		}

		decoded, _, err := image.Decode(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("画像のデコードに失敗したのだ: %w", err))
		}

		img = decoded
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, downloadRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return img, nil
}
