package composer

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// testArtifacts は単色画像のアーティファクト列を組み立てるのだ。
func testArtifacts(count int, caption string) []domain.PageArtifact {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 120, G: 80, B: 200, A: 255})
		}
	}

	artifacts := make([]domain.PageArtifact, 0, count)
	for i := 1; i <= count; i++ {
		artifacts = append(artifacts, domain.PageArtifact{
			PageNumber: i,
			Image:      img,
			Caption:    caption,
		})
	}
	return artifacts
}

// newMeasurePDF はGetStringWidth用にフォント設定済みのPDFを用意するのだ。
func newMeasurePDF() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageSide, Ht: pageSide},
	})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", fontSize)
	return pdf
}

func TestComposer_Compose(t *testing.T) {
	t.Run("アーティファクトの数だけ正方形ページができるのだ", func(t *testing.T) {
		c := NewComposer()
		pdf := c.buildDocument(testArtifacts(12, "A short caption."))

		if err := pdf.Error(); err != nil {
			t.Fatalf("PDFの構築に失敗したのだ: %v", err)
		}
		if got := pdf.PageCount(); got != 12 {
			t.Errorf("ページ数が%dなのだ", got)
		}
		w, h := pdf.GetPageSize()
		if w != pageSide || h != pageSide {
			t.Errorf("ページ寸法が %f x %f なのだ", w, h)
		}
	})

	t.Run("PDFファイルとして書き出せるのだ", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "book.pdf")

		c := NewComposer()
		if err := c.Compose(testArtifacts(3, "Once upon a time."), path); err != nil {
			t.Fatalf("書き出しに失敗したのだ: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "%PDF-") {
			t.Error("PDFのマジックナンバーで始まっていないのだ")
		}
	})

	t.Run("キャプションが空でもページは出力されるのだ", func(t *testing.T) {
		c := NewComposer()
		pdf := c.buildDocument(testArtifacts(2, ""))

		if err := pdf.Error(); err != nil {
			t.Fatalf("PDFの構築に失敗したのだ: %v", err)
		}
		if got := pdf.PageCount(); got != 2 {
			t.Errorf("ページ数が%dなのだ", got)
		}
	})

	t.Run("空のアーティファクト列はエラーなのだ", func(t *testing.T) {
		c := NewComposer()
		err := c.Compose(nil, filepath.Join(t.TempDir(), "empty.pdf"))
		if err == nil {
			t.Fatal("エラーが返らないのだ")
		}
	})
}

func TestComposer_WrapCaption(t *testing.T) {
	c := NewComposer()
	maxWidth := pageSide - 2*sideMargin

	t.Run("短い文は1行に収まるのだ", func(t *testing.T) {
		pdf := newMeasurePDF()
		lines := c.wrapCaption(pdf, "A tiny tale.")
		if len(lines) != 1 || lines[0] != "A tiny tale." {
			t.Errorf("折り返し結果が期待と違うのだ: %v", lines)
		}
	})

	t.Run("長い文は描画幅の実測で折り返されるのだ", func(t *testing.T) {
		pdf := newMeasurePDF()
		long := strings.Repeat("wonderful adventure ", 20)
		lines := c.wrapCaption(pdf, long)

		if len(lines) < 2 {
			t.Fatalf("折り返されていないのだ: %d行", len(lines))
		}
		for _, line := range lines {
			if w := pdf.GetStringWidth(line); w >= maxWidth {
				t.Errorf("行幅%fが上限を超えているのだ: %q", w, line)
			}
		}
	})

	t.Run("改行は段落として独立に折り返されるのだ", func(t *testing.T) {
		pdf := newMeasurePDF()
		lines := c.wrapCaption(pdf, "First paragraph.\nSecond paragraph.")
		if len(lines) != 2 {
			t.Fatalf("段落が保持されていないのだ: %v", lines)
		}
		if lines[0] != "First paragraph." || lines[1] != "Second paragraph." {
			t.Errorf("段落の内容が期待と違うのだ: %v", lines)
		}
	})

	t.Run("空の段落は行として残らないのだ", func(t *testing.T) {
		pdf := newMeasurePDF()
		lines := c.wrapCaption(pdf, "Top.\n\n\nBottom.")
		if len(lines) != 2 {
			t.Errorf("空行が混ざっているのだ: %v", lines)
		}
	})
}

func TestLastLines(t *testing.T) {
	t.Run("4行以下はそのままなのだ", func(t *testing.T) {
		in := []string{"a", "b", "c"}
		if got := lastLines(in, maxLines); len(got) != 3 {
			t.Errorf("行数が%dなのだ", len(got))
		}
	})

	t.Run("5行以上は末尾の4行だけ残るのだ", func(t *testing.T) {
		in := []string{"1", "2", "3", "4", "5", "6"}
		got := lastLines(in, maxLines)
		if len(got) != maxLines {
			t.Fatalf("行数が%dなのだ", len(got))
		}
		if got[0] != "3" || got[3] != "6" {
			t.Errorf("残った行が期待と違うのだ: %v", got)
		}
	})
}

func TestTruncateLine(t *testing.T) {
	t.Run("80文字を超える行は打ち切られるのだ", func(t *testing.T) {
		line := strings.Repeat("x", 100)
		got := truncateLine(line)
		if utf8.RuneCountInString(got) != maxLineRunes {
			t.Errorf("打ち切り後が%d文字なのだ", utf8.RuneCountInString(got))
		}
	})

	t.Run("80文字以下はそのままなのだ", func(t *testing.T) {
		if got := truncateLine("short"); got != "short" {
			t.Errorf("改変されてしまったのだ: %s", got)
		}
	})
}
