package config

import (
	"log/slog"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultStoryProvider    = "openai"
	DefaultUploadDir        = "uploads"
	DefaultOutputDir        = "outputs"
	DefaultTemplateDir      = "story_templates"
	DefaultServerPort       = "3000"
	DefaultSessionRetention = 24 * time.Hour
	DefaultPageDelay        = 1 * time.Second
	DefaultRequestTimeout   = 120 * time.Second // 生成系APIは遅いので長めに取るのだ
	DefaultFetchTimeout     = 30 * time.Second  // 生成済み画像のダウンロード用
)

// Config はアプリケーション全体の環境設定（APIキーや保存先）を保持する構造体なのだ。
// モデル名は空のままでもよく、各プロバイダ側のデフォルトに落ちるのだ。
type Config struct {
	// --- AI Provider Settings ---
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	StoryProvider string // "openai" か "gemini"
	VisionModel   string
	ChatModel     string
	ImageModel    string
	EditModel     string
	GeminiModel   string

	// --- Storage & Output Settings ---
	UploadDir   string
	OutputDir   string
	TemplateDir string

	// --- Session & Pacing ---
	SessionRetention time.Duration
	PageDelay        time.Duration

	// --- Server & Timeouts ---
	Port           string
	RequestTimeout time.Duration
	FetchTimeout   time.Duration

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		OpenAIAPIKey:     envutil.GetEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    envutil.GetEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		StoryProvider:    envutil.GetEnv("STORY_PROVIDER", DefaultStoryProvider),
		VisionModel:      envutil.GetEnv("VISION_MODEL", ""),
		ChatModel:        envutil.GetEnv("CHAT_MODEL", ""),
		ImageModel:       envutil.GetEnv("IMAGE_MODEL", ""),
		EditModel:        envutil.GetEnv("EDIT_MODEL", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", ""),
		UploadDir:        envutil.GetEnv("UPLOAD_DIR", DefaultUploadDir),
		OutputDir:        envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),
		TemplateDir:      envutil.GetEnv("TEMPLATE_DIR", DefaultTemplateDir),
		SessionRetention: getDuration("SESSION_RETENTION", DefaultSessionRetention),
		PageDelay:        getDuration("PAGE_DELAY", DefaultPageDelay),
		Port:             envutil.GetEnv("PORT", DefaultServerPort),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		FetchTimeout:     getDuration("FETCH_TIMEOUT", DefaultFetchTimeout),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	PhotoPath string // --photo
	StoryType string // --story
	Gender    string // --gender
	ChildName string // --name

	// 出力関連
	OutputFile string // --output
}

// getDuration は時間指定の環境変数を読むのだ。壊れた値は警告してデフォルトに落とすのだ。
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数の時間指定が読めないのだ", "key", key, "value", raw, "error", err)
		return fallback
	}
	return d
}
