package composer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// ページレイアウトの寸法なのだ。72pt/インチ換算で612ptは8.5インチ四方なのだ。
const (
	pageSide    = 612.0 // 正方形ページの一辺 (pt)
	captionBand = 120.0 // 下端のキャプション帯の高さ (pt)
	sideMargin  = 20.0  // 左右の余白 (pt)
	fontSize    = 18.0  // キャプションのフォントサイズ (pt)
	lineStep    = 28.0  // キャプションの行送り (pt)
	baselineY   = 30.0  // 最下行のベースラインの下端からの距離 (pt)

	maxLines     = 4  // 描画するキャプションの最大行数
	maxLineRunes = 80 // 1行あたりの最大文字数
)

// Composer は、ページ画像とキャプションの列から正方形のPDF文書を組みます。
// 1アーティファクトにつき1ページ、入力順のまま全ページを敷き詰めます。
type Composer struct{}

// NewComposer は新しい Composer を生成します。
func NewComposer() *Composer {
	return &Composer{}
}

// Compose はアーティファクト列をPDFへ描き出して保存します。
func (c *Composer) Compose(artifacts []domain.PageArtifact, outputPath string) error {
	if len(artifacts) == 0 {
		return fmt.Errorf("描き出すページが1枚もないのだ")
	}

	pdf := c.buildDocument(artifacts)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("PDFの構築に失敗したのだ: %w", err)
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("PDFの保存に失敗したのだ: %w", err)
	}

	slog.Info("PDFを書き出したのだ", "path", outputPath, "pages", len(artifacts))
	return nil
}

// buildDocument は全ページをメモリ上のPDFへ組み立てるのだ。
func (c *Composer) buildDocument(artifacts []domain.PageArtifact) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageSide, Ht: pageSide},
	})
	pdf.SetAutoPageBreak(false, 0)

	for i, art := range artifacts {
		pdf.AddPage()
		c.drawPageImage(pdf, art.Image, i)
		if strings.TrimSpace(art.Caption) != "" {
			c.drawCaption(pdf, art.Caption)
		}
	}
	return pdf
}

// drawPageImage はページ画像を612x612へ整えて全面に敷くのだ。
func (c *Composer) drawPageImage(pdf *fpdf.Fpdf, img image.Image, index int) {
	if img == nil {
		pdf.SetError(fmt.Errorf("ページ %d の画像が空なのだ", index+1))
		return
	}

	resized := imaging.Resize(img, int(pageSide), int(pageSide), imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		pdf.SetError(fmt.Errorf("ページ %d の画像エンコードに失敗したのだ: %w", index+1, err))
		return
	}

	name := fmt.Sprintf("page-%d", index+1)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	pdf.ImageOptions(name, 0, 0, pageSide, pageSide, false, opts, 0, "")
}

// drawCaption は下端に不透明の白帯を敷き、本文を読み順で描くのだ。
// 行は描画幅の実測で折り返し、末尾の4行だけを下端の帯へ収めるのだ。
func (c *Composer) drawCaption(pdf *fpdf.Fpdf, caption string) {
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, pageSide-captionBand, pageSide, captionBand, "F")

	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetTextColor(26, 26, 26)

	lines := lastLines(c.wrapCaption(pdf, caption), maxLines)

	// 座標原点が左上のため、下端から30pt・行送り28ptの枠へ上から順に割り当てるのだ
	for i, line := range lines {
		y := (pageSide - baselineY) - float64(len(lines)-1-i)*lineStep
		pdf.Text(sideMargin, y, truncateLine(line))
	}
}

// wrapCaption は、改行を段落の区切りとして保ちながら描画幅の実測で折り返すのだ。
// 空の段落は行として残さないのだ。
func (c *Composer) wrapCaption(pdf *fpdf.Fpdf, caption string) []string {
	maxWidth := pageSide - 2*sideMargin

	var lines []string
	for _, paragraph := range strings.Split(caption, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if pdf.GetStringWidth(candidate) < maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// lastLines は末尾のn行だけを残すのだ。
func lastLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// truncateLine は1行を最大文字数で打ち切るのだ。
func truncateLine(line string) string {
	r := []rune(line)
	if len(r) <= maxLineRunes {
		return line
	}
	return string(r[:maxLineRunes])
}
