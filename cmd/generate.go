package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// opts は generate コマンドのフラグ置き場なのだ。
var opts config.GenerateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "写真1枚から絵本PDFを1冊だけローカル生成するのだ",
	Long: `Webサーバを立てずに、同じ生成工程を同期実行して1冊だけ作るのだ。
動作確認やテンプレートバンドルの検証に使うのだ。`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.PhotoPath, "photo", "p", "", "主人公にする子供の写真のパスなのだ（必須）。")
	generateCmd.Flags().StringVarP(&opts.StoryType, "story", "s", "little_red_riding_hood", "同梱題材のキー、またはテンプレートバンドル名なのだ。")
	generateCmd.Flags().StringVarP(&opts.Gender, "gender", "g", domain.GenderBoy, "主人公の性別表記（Boy / Girl）なのだ。")
	generateCmd.Flags().StringVarP(&opts.ChildName, "name", "n", "", "副題へ差し込む子供の名前なのだ（テンプレートバンドル系のみ）。")
	generateCmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "完成PDFの保存先なのだ。省略時は outputs/<token>.pdf になるのだ。")
	_ = generateCmd.MarkFlagRequired("photo")
}

// runGenerate は1冊分の生成を同期で実行するのだ。
func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.LoadConfig()
	cfg.Options = opts

	if _, err := os.Stat(opts.PhotoPath); err != nil {
		return fmt.Errorf("写真が読めないのだ: %w", err)
	}
	if !domain.ValidGender(opts.Gender) {
		return fmt.Errorf("gender は %s か %s を指定するのだ: %s", domain.GenderBoy, domain.GenderGirl, opts.Gender)
	}

	app, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	if app.Manager.ClassifyStory(opts.StoryType) == workflow.StoryUnknown {
		return fmt.Errorf("story が題材にもテンプレートバンドルにも解決できないのだ: %s", opts.StoryType)
	}

	req := workflow.Request{
		Token:     uuid.NewString(),
		ImagePath: opts.PhotoPath,
		StoryType: opts.StoryType,
		Gender:    opts.Gender,
		ChildName: opts.ChildName,
	}

	path, err := app.Manager.Run(ctx, req)
	if err != nil {
		return err
	}

	if opts.OutputFile != "" {
		if err := os.Rename(path, opts.OutputFile); err != nil {
			return fmt.Errorf("完成PDFの移動に失敗したのだ: %w", err)
		}
		path = opts.OutputFile
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
