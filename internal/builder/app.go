package builder

import (
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/session"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを Web サーバと CLI の両方に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config    // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、保存先など）。
	Store   *session.Store    // Storeは、進捗レコードと成果物の寿命を管理するセッションストアです。
	Manager *workflow.Manager // Managerは、写真1枚から絵本PDFまでの生成工程です。
}
