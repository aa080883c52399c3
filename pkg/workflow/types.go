package workflow

// Request は1冊分の生成要求なのだ。検証済みの入力だけを束ねる前提で、
// ここでの再検証は行わないのだ。
type Request struct {
	// Token はセッショントークン。進捗照会と成果物のファイル名に使う
	Token string
	// ImagePath はアップロードされた写真の保存先パス
	ImagePath string
	// StoryType は同梱題材のキー、またはテンプレートバンドル名
	StoryType string
	// Gender は主人公の性別表記 ("Boy" / "Girl")
	Gender string
	// ChildName は副題へ差し込む子供の名前。テンプレートバンドル系のみ使う
	ChildName string
}

// StoryKind は story_type の解決結果なのだ。
type StoryKind int

const (
	// StoryUnknown はどの題材にもバンドルにも解決できなかったことを示す。
	StoryUnknown StoryKind = iota
	// StorySynthesis は同梱題材からの物語合成を示す。
	StorySynthesis
	// StoryTemplate はテンプレートバンドルの顔差し替え生成を示す。
	StoryTemplate
)
