package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// 画像生成APIのプロンプト長制限に合わせた切り詰め幅なのだ。
const (
	maxSceneRunes       = 400
	maxDescriptionRunes = 200
	maxPromptRunes      = 1000
)

// illustrationStyleTail は全ページ共通の画風サフィックスです。
const illustrationStyleTail = "Consistent character appearance, children's book illustration style, Disney Brave aesthetic, vibrant colors, square composition"

// ImagePromptBuilder は、キャラクターの容姿説明を毎回再注入して
// ページ挿絵用のAIプロンプトを構築します。
type ImagePromptBuilder struct {
	description string // Character Profiler が起こした容姿説明
	totalPages  int
}

// NewImagePromptBuilder は新しい ImagePromptBuilder を生成します。
func NewImagePromptBuilder(description string) *ImagePromptBuilder {
	return &ImagePromptBuilder{
		description: description,
		totalPages:  domain.PageCount,
	}
}

// BuildPagePrompt は、シーンの指示とページ番号から生成API向けの合成プロンプトを構築します。
// シーンは400ルーン・容姿は200ルーンへ切り詰めた上で、全体を1000ルーンに制限するのだ。
func (pb *ImagePromptBuilder) BuildPagePrompt(scenePrompt string, pageNum int) string {
	scene := truncateRunes(strings.TrimSpace(scenePrompt), maxSceneRunes)
	desc := truncateRunes(strings.TrimSpace(pb.description), maxDescriptionRunes)

	full := fmt.Sprintf("%s. Character: %s. %s, page %d of %d",
		scene, desc, illustrationStyleTail, pageNum, pb.totalPages)

	return truncateRunes(full, maxPromptRunes)
}

// BuildEditPrompt は、マスク領域内の顔をキャラクターへ差し替えるための
// 編集プロンプトを構築します。マスク外の画風と構図は保持させます。
func (pb *ImagePromptBuilder) BuildEditPrompt() string {
	desc := truncateRunes(strings.TrimSpace(pb.description), maxDescriptionRunes)
	return fmt.Sprintf("Replace the face in the masked area with the face of %s. Keep the original illustration style, colors, and composition outside the mask. Children's book illustration style.", desc)
}

// truncateRunes は文字列をルーン数で切り詰めるのだ。バイト境界では切らないのだ。
func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
