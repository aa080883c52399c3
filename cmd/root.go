package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storybook",
	Short: "子供の写真1枚から12ページの絵本PDFを生成するツールキットなのだ",
	Long: `go-storybook-kit は、アップロードされた子供の写真から容姿を読み取り、
主人公として一貫した姿で登場する12ページの絵本PDFを生成するのだ。

serve でWebサーバとして動かすか、generate で1冊だけローカル生成できるのだ。`,
	SilenceUsage: true,
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	cobra.OnInitialize(func() {
		// .env は任意なのだ。無ければ環境変数だけで動くのだ。
		_ = godotenv.Load()
	})

	rootCmd.AddCommand(serveCmd, generateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
