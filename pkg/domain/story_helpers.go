package domain

// HasExactPageCount はアウトラインが規定ページ数ちょうどかを返すのだ。
func (o StoryOutline) HasExactPageCount() bool {
	return len(o.Pages) == PageCount
}

// CaptionTexts は全ページの本文をページ順に取り出します。
func (o StoryOutline) CaptionTexts() []string {
	texts := make([]string, 0, len(o.Pages))
	for _, p := range o.Pages {
		texts = append(texts, p.Text)
	}
	return texts
}
