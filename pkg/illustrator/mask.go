package illustrator

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// editSide は編集APIへ渡すベース画像とマスクの一辺なのだ。
const editSide = 1024

// faceMask は、上中央に楕円の透過領域を開けたマスク画像を作るのだ。
// 楕円は中心 (w/2, h/3)・半径 w/4 × h/5 の固定ジオメトリで、
// 顔検出は行わない割り切った近似なのだ。透過領域が編集対象になるのだ。
func faceMask(bounds image.Rectangle) *image.NRGBA {
	w, h := bounds.Dx(), bounds.Dy()
	mask := imaging.New(w, h, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	cx, cy := float64(w)/2, float64(h)/3
	rx, ry := float64(w)/4, float64(h)/5

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			if dx*dx+dy*dy <= 1 {
				mask.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return mask
}

// encodeEditPair は、編集APIへ渡すベース画像とマスクのPNGペアを組み立てるのだ。
// APIの要求に合わせてベースを正方形へ整え、マスクは同じ寸法で作るのだ。
func encodeEditPair(template image.Image) ([]byte, []byte, error) {
	base := imaging.Resize(template, editSide, editSide, imaging.Lanczos)
	mask := faceMask(base.Bounds())

	basePNG, err := encodePNG(base)
	if err != nil {
		return nil, nil, fmt.Errorf("ベース画像のエンコードに失敗したのだ: %w", err)
	}
	maskPNG, err := encodePNG(mask)
	if err != nil {
		return nil, nil, fmt.Errorf("マスク画像のエンコードに失敗したのだ: %w", err)
	}
	return basePNG, maskPNG, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
