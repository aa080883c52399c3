package workflow

import (
	"time"
)

// デフォルト値の定義なのだ
const (
	DefaultOutputDir = "outputs"
	DefaultPageDelay = 1 * time.Second
)

// Config は Storybook Kit の生成工程を動作させるための基本設定なのだ。
type Config struct {
	// --- Output Settings ---
	OutputDir string

	// --- Generation Settings ---
	PageDelay time.Duration
}

// NewConfig はデフォルト値で初期化された Config に出力先をセットして返すのだ。
func NewConfig(outputDir string) Config {
	cfg := DefaultConfig()
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return cfg
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数なのだ。
func DefaultConfig() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		PageDelay: DefaultPageDelay,
	}
}
