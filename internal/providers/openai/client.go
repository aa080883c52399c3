// Package openai は OpenAI REST API の薄いクライアントを提供するのだ。
// 容姿の読み取り、物語の合成、挿絵の生成と顔差し替えの4つの契約を
// 1つのクライアントで満たすのだ。
package openai

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/illustrator"
	"github.com/shouni/go-storybook-kit/pkg/profiler"
	"github.com/shouni/go-storybook-kit/pkg/story"
)

// kit 側の契約をすべて満たすことを保証するのだ。
var (
	_ profiler.VisionClient      = (*Client)(nil)
	_ story.TextGenerator        = (*Client)(nil)
	_ illustrator.GenerateClient = (*Client)(nil)
	_ illustrator.EditClient     = (*Client)(nil)
)

// デフォルト値の定義なのだ
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultVisionModel = "gpt-4o"
	DefaultChatModel   = "gpt-4o"
	DefaultImageModel  = "dall-e-3"
	DefaultEditModel   = "dall-e-2"

	defaultRequestTimeout = 120 * time.Second
	imageSize             = "1024x1024"
	visionMaxTokens       = 200
	storyTemperature      = 0.7
)

// Options は Client の構築オプションなのだ。モデル名と BaseURL は
// 空のままならデフォルト値に落ちるのだ。
type Options struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ChatModel   string
	ImageModel  string
	EditModel   string
	HTTPClient  *http.Client
}

// Client は OpenAI REST API を呼び出すクライアントなのだ。
type Client struct {
	apiKey      string
	baseURL     string
	visionModel string
	chatModel   string
	imageModel  string
	editModel   string
	client      *http.Client
}

// NewClient はオプションを検証し、新しい Client を初期化します。
// APIキーが無い運用では Client 自体を作らず、kit 側の nil 短絡に任せるのだ。
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("APIKey は必須です")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		visionModel: orDefault(opts.VisionModel, DefaultVisionModel),
		chatModel:   orDefault(opts.ChatModel, DefaultChatModel),
		imageModel:  orDefault(opts.ImageModel, DefaultImageModel),
		editModel:   orDefault(opts.EditModel, DefaultEditModel),
		client:      client,
	}, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
