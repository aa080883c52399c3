package story

import (
	"maps"
	"slices"
)

// characterNamePlaceholder は定型シーン内で主人公の役名に置換されるトークンなのだ。
const characterNamePlaceholder = "{character_name}"

// Theme は合成ストーリーの題材定義です。
type Theme struct {
	Key            string   // story_type として受け付ける識別子
	BasedOn        string   // 題材となる昔話
	Title          string   // 応答の story_title に固定させるタイトル
	CharacterName  string   // 物語上の主人公の役名
	AdventureNote  string   // 2〜11ページの展開への指示
	FallbackScenes []string // 生成失敗時に使う12の定型シーン
}

// themes は同梱の題材カタログなのだ。
var themes = map[string]Theme{
	"little_red_riding_hood": {
		Key:           "little_red_riding_hood",
		BasedOn:       "Little Red Riding Hood",
		Title:         "Little Red Riding Hood",
		CharacterName: "Little Red Riding Hood",
		AdventureNote: "The adventure story",
		FallbackScenes: []string{
			"Cover: {character_name} in red hood",
			"{character_name} leaves home with a basket",
			"Walking through the forest",
			"Meeting the wolf in the forest",
			"The wolf rushes ahead",
			"{character_name} arrives at grandmother's house",
			"The wolf is in grandmother's bed",
			"The wolf reveals himself",
			"A brave woodcutter arrives",
			"The woodcutter saves {character_name}",
			"Safe return home",
			"Happy ending with family",
		},
	},
	"jack_and_the_beanstalk": {
		Key:           "jack_and_the_beanstalk",
		BasedOn:       "Jack and the Beanstalk",
		Title:         "Jack and the Beanstalk",
		CharacterName: "Jack",
		AdventureNote: "The adventure story with the beanstalk",
		FallbackScenes: []string{
			"Cover: {character_name} at home",
			"{character_name} trades cow for magic beans",
			"Beans grow into giant beanstalk",
			"{character_name} climbs the beanstalk",
			"Reaching the clouds",
			"Finding a giant's castle",
			"Entering the castle",
			"Taking the golden goose",
			"The giant wakes up",
			"Climbing down quickly",
			"Cutting down the beanstalk",
			"Happy ending with family",
		},
	},
}

// ThemeFor は story_type に対応する題材を返します。
func ThemeFor(storyType string) (Theme, bool) {
	t, ok := themes[storyType]
	return t, ok
}

// ThemeKeys はサポートする story_type の一覧をソート済みで返します。
func ThemeKeys() []string {
	keys := slices.Collect(maps.Keys(themes))
	slices.Sort(keys)
	return keys
}
