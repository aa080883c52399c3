package domain

// PageCount は1冊の物語が必ず持つページ数です。
// 生成元が何ページ返そうと、アウトラインは常にこの数に揃えられます。
const PageCount = 12

// StoryOutline は AI または テンプレートから得られる物語全体の骨格です。
type StoryOutline struct {
	Title string      `json:"story_title"`
	Pages []StoryPage `json:"pages"`
}

// StoryPage は絵本の1ページ分の構成・本文・画像生成指示を保持します。
type StoryPage struct {
	PageNumber       int    `json:"page_number"`
	SceneDescription string `json:"scene_description"`
	Text             string `json:"text"`
	ImagePrompt      string `json:"image_prompt"`
}

// 性別セレクタの取りうる値なのだ。提出フォームの値をそのまま使うのだ。
const (
	GenderBoy  = "Boy"
	GenderGirl = "Girl"
)

// ValidGender は性別セレクタが受理可能な値かを返します。
func ValidGender(s string) bool {
	return s == GenderBoy || s == GenderGirl
}
