package illustrator

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// placeholderSide は生成APIの出力と同じ正方形の一辺なのだ。
const placeholderSide = 1024

// placeholderColor はプレースホルダーを塗りつぶす水色なのだ。
var placeholderColor = color.NRGBA{R: 173, G: 216, B: 230, A: 255}

// Placeholder は、挿絵の生成に失敗したページを埋める水色の正方形画像を返すのだ。
func Placeholder() *image.NRGBA {
	return imaging.New(placeholderSide, placeholderSide, placeholderColor)
}
