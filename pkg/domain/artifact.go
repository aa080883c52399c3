package domain

import "image"

// PageArtifact は完成した1ページ分のラスタ画像と、その下部に載せる本文です。
// ドキュメントコンポーザーだけが消費し、PDF書き出し後は破棄されます。
type PageArtifact struct {
	PageNumber int
	Image      image.Image
	Caption    string
}
