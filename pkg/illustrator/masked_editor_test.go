package illustrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// fakeEditClient は渡された画像ペアとプロンプトを記録するのだ。
type fakeEditClient struct {
	url     string
	err     error
	basePNG []byte
	maskPNG []byte
	prompt  string
	calls   int
}

func (f *fakeEditClient) EditImage(_ context.Context, basePNG, maskPNG []byte, prompt string) (string, error) {
	f.calls++
	f.basePNG = basePNG
	f.maskPNG = maskPNG
	f.prompt = prompt
	return f.url, f.err
}

// fakePageSource はページ番号ごとの固定画像を返すのだ。
type fakePageSource map[int]image.Image

func (f fakePageSource) Page(n int) (image.Image, bool) {
	img, ok := f[n]
	return img, ok
}

// solidImage は単色のテスト画像を作るのだ。
func solidImage(c color.NRGBA, side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestMaskedEditor_Illustrate(t *testing.T) {
	ctx := context.Background()
	templateColor := color.NRGBA{R: 40, G: 180, B: 90, A: 255}
	source := fakePageSource{7: solidImage(templateColor, 32)}
	page := domain.StoryPage{PageNumber: 7, Text: "Template page 7 text."}

	t.Run("編集結果をNRGBAへ正規化して返すのだ", func(t *testing.T) {
		editedColor := color.NRGBA{R: 200, G: 30, B: 30, A: 255}
		payload := encodeTestPNG(t, editedColor, 16)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write(payload)
		}))
		defer srv.Close()

		client := &fakeEditClient{url: srv.URL}
		me := NewMaskedEditor(client, source, prompts.NewImagePromptBuilder("a girl with braids"), newTestFetcher(srv), 0)

		img := me.Illustrate(ctx, page)
		if _, ok := img.(*image.NRGBA); !ok {
			t.Errorf("NRGBAに正規化されていないのだ: %T", img)
		}
		if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != editedColor {
			t.Errorf("編集結果の色が%vなのだ", got)
		}
		if !strings.Contains(client.prompt, "a girl with braids") {
			t.Error("編集プロンプトに容姿説明がないのだ")
		}
	})

	t.Run("ベースは正方形へ整えられマスクは同寸法で作られるのだ", func(t *testing.T) {
		payload := encodeTestPNG(t, color.NRGBA{A: 255}, 8)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write(payload)
		}))
		defer srv.Close()

		client := &fakeEditClient{url: srv.URL}
		me := NewMaskedEditor(client, source, prompts.NewImagePromptBuilder("desc"), newTestFetcher(srv), 0)
		me.Illustrate(ctx, page)

		base, err := png.Decode(bytes.NewReader(client.basePNG))
		if err != nil {
			t.Fatalf("ベースPNGが壊れているのだ: %v", err)
		}
		if base.Bounds().Dx() != editSide || base.Bounds().Dy() != editSide {
			t.Errorf("ベースの寸法が%vなのだ", base.Bounds())
		}

		mask, err := png.Decode(bytes.NewReader(client.maskPNG))
		if err != nil {
			t.Fatalf("マスクPNGが壊れているのだ: %v", err)
		}
		if mask.Bounds() != base.Bounds() {
			t.Errorf("マスクとベースの寸法が食い違うのだ: %v / %v", mask.Bounds(), base.Bounds())
		}

		// 上中央の楕円内は透過、四隅は不透過なのだ
		center := color.NRGBAModel.Convert(mask.At(editSide/2, editSide/3)).(color.NRGBA)
		if center.A != 0 {
			t.Errorf("楕円中心が透過になっていないのだ: alpha=%d", center.A)
		}
		corner := color.NRGBAModel.Convert(mask.At(10, 10)).(color.NRGBA)
		if corner.A != 255 {
			t.Errorf("四隅が不透過になっていないのだ: alpha=%d", corner.A)
		}
	})

	t.Run("編集APIの失敗は未加工のテンプレートへ落ちるのだ", func(t *testing.T) {
		client := &fakeEditClient{err: errors.New("api down")}
		me := NewMaskedEditor(client, source, prompts.NewImagePromptBuilder("desc"), NewImageFetcher(nil), 0)

		img := me.Illustrate(ctx, page)
		if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != templateColor {
			t.Errorf("テンプレートの色と違うのだ: %v", got)
		}
	})

	t.Run("ダウンロード失敗も未加工のテンプレートへ落ちるのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := &fakeEditClient{url: srv.URL}
		me := NewMaskedEditor(client, source, prompts.NewImagePromptBuilder("desc"), newTestFetcher(srv), 0)

		img := me.Illustrate(ctx, page)
		if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != templateColor {
			t.Errorf("テンプレートの色と違うのだ: %v", got)
		}
	})

	t.Run("クライアント未設定ならテンプレートをそのまま返すのだ", func(t *testing.T) {
		me := NewMaskedEditor(nil, source, prompts.NewImagePromptBuilder("desc"), NewImageFetcher(nil), 0)

		img := me.Illustrate(ctx, page)
		if _, ok := img.(*image.NRGBA); !ok {
			t.Errorf("NRGBAに正規化されていないのだ: %T", img)
		}
		if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != templateColor {
			t.Errorf("テンプレートの色と違うのだ: %v", got)
		}
	})

	t.Run("ページが引き当てられない場合はプレースホルダーなのだ", func(t *testing.T) {
		me := NewMaskedEditor(nil, source, prompts.NewImagePromptBuilder("desc"), NewImageFetcher(nil), 0)
		assertPlaceholder(t, me.Illustrate(ctx, domain.StoryPage{PageNumber: 13}))
	})
}
