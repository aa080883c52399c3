package prompts

import (
	_ "embed"
)

// SynthesisData は物語生成プロンプトのテンプレートに渡すデータ構造です。
type SynthesisData struct {
	Theme         string // 題材となる昔話 (例: "Little Red Riding Hood")
	Title         string // 応答の story_title に固定させるタイトル
	CharacterName string // 物語上の主人公の役名
	Gender        string // "Boy" または "Girl"
	Description   string // 写真から起こしたキャラクターの容姿説明
	AdventureNote string // 2〜11ページの展開への追加指示
}

//go:embed story_synthesis.md
var synthesisTemplate string

// StorySystemInstruction は物語生成APIに渡すシステムプロンプトです。
// JSONモードと併用して応答を厳密なJSONに固定します。
const StorySystemInstruction = "You are a children's story writer. Always return valid JSON only."

// VisionInstruction は子供の写真から容姿を言語化させる視覚APIへの指示文です。
// 応答は全ページの image_prompt へそのまま再注入されるため、書式まで指定するのだ。
const VisionInstruction = "Describe this child's appearance in detail, including: hair color and style, eye color, skin tone, facial features, and any distinctive characteristics. Be specific and consistent. Format as: 'A [age]-year-old [gender] with [hair description], [eye color] eyes, [skin tone], and [other features]."
