package builder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/providers/gemini"
	"github.com/shouni/go-storybook-kit/internal/providers/openai"
	"github.com/shouni/go-storybook-kit/pkg/bundle"
	"github.com/shouni/go-storybook-kit/pkg/composer"
	"github.com/shouni/go-storybook-kit/pkg/illustrator"
	"github.com/shouni/go-storybook-kit/pkg/profiler"
	"github.com/shouni/go-storybook-kit/pkg/session"
	"github.com/shouni/go-storybook-kit/pkg/story"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// NewAppContext は設定から生成工程一式を組み立てるのだ。
// APIキーが無くても失敗せず、各工程が代替素材で完走する構成に落ちるのだ。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	if err := ensureDirs(cfg.UploadDir, cfg.OutputDir); err != nil {
		return nil, err
	}

	store := session.New(cfg.SessionRetention, cfg.UploadDir)
	oai := initializeOpenAI(ctx, cfg)

	selector, err := buildSelector(ctx, cfg, oai)
	if err != nil {
		return nil, err
	}

	manager, err := workflow.New(workflow.ManagerArgs{
		Config:   workflow.Config{OutputDir: cfg.OutputDir, PageDelay: cfg.PageDelay},
		Store:    store,
		Profiler: buildProfiler(oai),
		Selector: selector,
		Composer: composer.NewComposer(),
	})
	if err != nil {
		return nil, fmt.Errorf("Managerの初期化に失敗しました: %w", err)
	}

	return &AppContext{
		Config:  cfg,
		Store:   store,
		Manager: manager,
	}, nil
}

// buildSelector は題材カタログとテンプレートライブラリを束ねた Selector を構築します。
func buildSelector(ctx context.Context, cfg *config.Config, oai *openai.Client) (*workflow.Selector, error) {
	args := workflow.SelectorArgs{
		Config:  workflow.Config{OutputDir: cfg.OutputDir, PageDelay: cfg.PageDelay},
		Fetcher: illustrator.NewImageFetcher(&http.Client{Timeout: cfg.FetchTimeout}),
		Library: bundle.NewLibrary(cfg.TemplateDir),
	}
	if oai != nil {
		args.Images = oai
		args.Editor = oai
	}

	text, err := initializeTextGenerator(ctx, cfg, oai)
	if err != nil {
		return nil, err
	}
	args.Text = text

	selector, err := workflow.NewSelector(args)
	if err != nil {
		return nil, fmt.Errorf("Selectorの初期化に失敗しました: %w", err)
	}
	return selector, nil
}

// initializeOpenAI は OpenAI クライアントを初期化します。
// キーが無いときは nil を返し、下流の代替素材への短絡に任せるのだ。
func initializeOpenAI(ctx context.Context, cfg *config.Config) *openai.Client {
	if cfg.OpenAIAPIKey == "" {
		slog.WarnContext(ctx, "OPENAI_API_KEY が無いので代替素材だけで生成するのだ")
		return nil
	}

	client, err := openai.NewClient(openai.Options{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		VisionModel: cfg.VisionModel,
		ChatModel:   cfg.ChatModel,
		ImageModel:  cfg.ImageModel,
		EditModel:   cfg.EditModel,
		HTTPClient:  &http.Client{Timeout: cfg.RequestTimeout},
	})
	if err != nil {
		slog.WarnContext(ctx, "OpenAIクライアントの初期化に失敗したのだ", "error", err)
		return nil
	}
	return client
}

// initializeTextGenerator は STORY_PROVIDER に応じて物語合成AIを選びます。
// どちらの鍵も無い構成では nil を返し、決め打ちの場面構成に落ちるのだ。
func initializeTextGenerator(ctx context.Context, cfg *config.Config, oai *openai.Client) (story.TextGenerator, error) {
	switch cfg.StoryProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.WarnContext(ctx, "GEMINI_API_KEY が無いので物語は決め打ちの場面構成になるのだ")
			return nil, nil
		}
		model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		narrator, err := gemini.NewNarrator(model, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return narrator, nil
	default:
		if oai == nil {
			return nil, nil
		}
		return oai, nil
	}
}

func buildProfiler(oai *openai.Client) *profiler.Profiler {
	if oai == nil {
		return profiler.NewProfiler(nil)
	}
	return profiler.NewProfiler(oai)
}

// ensureDirs はアップロードと成果物の置き場を用意するのだ。
func ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
		}
	}
	return nil
}
